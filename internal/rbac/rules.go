package rbac

// Default policy. Guests log in as players.
var RolePermissions = map[string][]string{
	"player": {
		"quiz:view",
		"quiz:create",
		"quiz:generate",
		"attempt:record",
		"attempt:view",
		"mock:create",
	},
	"admin": {
		"*", // everything
	},
}
