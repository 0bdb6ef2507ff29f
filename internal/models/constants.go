package models

const (
	RoleAdmin   = "ADMIN"
	RoleTeacher = "TEACHER"
)

// Reservation lifecycle statuses as understood by the ability rules.
const (
	StatusScheduled                = "SCHEDULED"
	StatusConfirmedByTheUser       = "CONFIRMED_BY_THE_USER"
	StatusConfirmedByTheEnterprise = "CONFIRMED_BY_THE_ENTERPRISE"
	StatusCanceled                 = "CANCELED"
)

const (
	SpaceAvailable   = "AVAILABLE"
	SpaceUnavailable = "UNAVAILABLE"
)

const (
	SchoolPublic  = "PUBLICA"
	SchoolPrivate = "PRIVADA"
)

const (
	// DefaultPage is the first page of every paginated listing.
	DefaultPage = 1

	// DefaultPageSize is the page size used when none is given.
	DefaultPageSize = 10

	// DefaultCacheTTL is the query cache lifetime in seconds.
	DefaultCacheTTL = 5 * 60

	// DefaultRequestTimeout is the API request timeout in seconds.
	DefaultRequestTimeout = 10

	// DefaultQueryAttempts bounds automatic attempts for read-only queries.
	DefaultQueryAttempts = 3
)
