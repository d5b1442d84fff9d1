package team

// Principal is the resolved identity of the calling team application,
// produced by the external identity provider.
type Principal struct {
	TeamID   string
	TeamName string
	UserID   string
}
