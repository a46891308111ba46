package models

// BracketRole says what a group represents inside its stage. Round-robin
// groups have no role.
type BracketRole string

const (
	RoleUpperBracket BracketRole = "upper"
	RoleLowerBracket BracketRole = "lower"
	// RoleFinalGroup holds the consolation final of a single elimination
	// stage or the grand final of a double elimination stage.
	RoleFinalGroup BracketRole = "final"
)

type Group struct {
	ID      int         `json:"id"`
	StageID int         `json:"stage_id"`
	Number  int         `json:"number"`
	Role    BracketRole `json:"role,omitempty"`
}
