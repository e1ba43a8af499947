package errors

// Service codes (AA)
const (
	// ServiceCommon is for common/base errors shared by all services.
	ServiceCommon = 0

	// ServiceToken is for the session token service.
	ServiceToken = 2

	// ServiceAuthz is for the authorization decision service.
	ServiceAuthz = 3

	// ServiceInfraDB is for database infrastructure.
	ServiceInfraDB = 10
)

// Category codes (BB)
const (
	// CategorySuccess indicates successful operation.
	CategorySuccess = 0

	// CategoryRequest indicates request/validation errors.
	CategoryRequest = 1

	// CategoryAuth indicates authentication errors.
	CategoryAuth = 2

	// CategoryPermission indicates authorization errors.
	CategoryPermission = 3

	// CategoryResource indicates resource not found errors.
	CategoryResource = 4

	// CategoryInternal indicates internal server errors.
	CategoryInternal = 7

	// CategoryDatabase indicates database errors.
	CategoryDatabase = 8
)

// MakeCode creates an error code from service, category, and sequence.
// Format: AABBCCC where AA=service, BB=category, CCC=sequence
func MakeCode(service, category, sequence int) int {
	return service*100000 + category*1000 + sequence
}

// ParseCode parses an error code into service, category, and sequence.
func ParseCode(code int) (service, category, sequence int) {
	service = code / 100000
	category = (code % 100000) / 1000
	sequence = code % 1000
	return
}

// GetCategory returns the category code from an error code.
func GetCategory(code int) int {
	return (code % 100000) / 1000
}

// IsSuccess checks if the error code indicates success.
func IsSuccess(code int) bool {
	return code == 0
}
