package models

type UserStatus string

const (
	StatusBasic      UserStatus = "basic"
	StatusAdmin      UserStatus = "admin"
	StatusSuperAdmin UserStatus = "superAdmin"
)

func (s UserStatus) Known() bool {
	switch s {
	case StatusBasic, StatusAdmin, StatusSuperAdmin:
		return true
	}
	return false
}

const (
	DepartmentOAC      = "oac"
	DepartmentFarmacia = "farmacia"
	DepartmentMedical  = "servicios-medicos"
)

func KnownDepartment(d string) bool {
	switch d {
	case DepartmentOAC, DepartmentFarmacia, DepartmentMedical:
		return true
	}
	return false
}

// DepartmentDisplay is the human-readable label for a department value.
func DepartmentDisplay(d string) string {
	switch d {
	case DepartmentOAC:
		return "OAC"
	case DepartmentFarmacia:
		return "Farmacia"
	case DepartmentMedical:
		return "Servicios Médicos"
	}
	return d
}

// Session is the authenticated user's token plus profile. It is only ever
// stored whole or cleared whole; there is no partial update.
type Session struct {
	Token             string     `json:"token"`
	UserID            int64      `json:"userId"`
	Username          string     `json:"username"`
	Status            UserStatus `json:"status"`
	Department        string     `json:"department"`
	DepartmentDisplay string     `json:"departmentDisplay"`
}

// Valid reports whether every field is present and the status is one of the
// enumerated values. A session failing this check must be treated as absent.
func (s Session) Valid() bool {
	if s.Token == "" || s.UserID == 0 || s.Username == "" {
		return false
	}
	if s.Department == "" || s.DepartmentDisplay == "" {
		return false
	}
	return s.Status.Known()
}
