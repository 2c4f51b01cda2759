package roster

// fields.go is the single source of truth for how sheet columns map to
// logical fields. The registration form has been re-worded several
// times since the academy opened, so every field keeps all the header
// spellings it has shipped with. Variant order is priority order.

var (
	fieldTimestamp = FieldSpec{
		Field:    "timestamp",
		Variants: []string{"Timestamp", "timestamp", "Submitted At", "submitted at"},
	}

	fieldName = FieldSpec{
		Field:    "name",
		Variants: []string{"Student Name", "student name", "Name", "name", "Full Name"},
	}

	fieldEmail = FieldSpec{
		Field:    "email",
		Variants: []string{"Email Address", "email address", "Email", "email", "Email ID"},
	}

	fieldMobile = FieldSpec{
		Field:    "mobile",
		Variants: []string{"Mobile Number", "mobile number", "Mobile", "mobile", "Student Mobile", "Phone Number", "Contact Number"},
	}

	fieldParentName = FieldSpec{
		Field:    "parent name",
		Variants: []string{"Parent Name", "parent name", "Father's Name", "Guardian Name"},
	}

	fieldParentMobile = FieldSpec{
		Field:    "parent mobile",
		Variants: []string{"Parent Mobile Number", "parent mobile number", "Parent Mobile", "parent mobile", "Guardian Mobile"},
	}

	fieldAddress = FieldSpec{
		Field:    "address",
		Variants: []string{"Address", "address", "Residential Address", "Home Address"},
	}

	fieldVehicle = FieldSpec{
		Field:    "vehicle number",
		Variants: []string{"Vehicle Number", "vehicle number", "Vehicle No", "Vehicle No."},
	}

	fieldPhoto = FieldSpec{
		Field:    "photo",
		Variants: []string{"Photo", "photo", "Upload Photo", "Photo URL", "Photograph"},
	}
)

// memberFields lists every logical field in resolution order.
var memberFields = []FieldSpec{
	fieldTimestamp,
	fieldName,
	fieldEmail,
	fieldMobile,
	fieldParentName,
	fieldParentMobile,
	fieldAddress,
	fieldVehicle,
	fieldPhoto,
}
