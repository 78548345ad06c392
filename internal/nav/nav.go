// Package nav composes the visible navigation menu from the session's
// department and role.
package nav

import (
	"sistemaweb/portal/internal/authz"
	"sistemaweb/portal/internal/models"
)

type Link struct {
	Href  string `json:"href"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// Links returns the menu for the given session: a common head plus the
// department- and role-specific entries. An invalid session gets no menu.
func Links(s models.Session) []Link {
	if !authz.IsAuthenticated(s) {
		return nil
	}

	links := []Link{{Href: "/dashboard", Label: "Inicio", Icon: "home"}}
	admin := authz.IsAdmin(s)

	switch s.Department {
	case models.DepartmentOAC:
		if admin {
			links = append(links,
				Link{Href: "/dashboard/oac/admin/inventario", Label: "Inventario", Icon: "package"},
				Link{Href: "/dashboard/oac/admin/solicitudes", Label: "Solicitudes", Icon: "clipboard-list"},
				Link{Href: "/dashboard/oac/admin/usuarios/registrar", Label: "Registrar Usuarios", Icon: "user-plus"},
			)
		} else {
			links = append(links, Link{Href: "/dashboard/oac", Label: "Panel OAC", Icon: "home"})
		}
	case models.DepartmentFarmacia:
		if admin {
			links = append(links,
				Link{Href: "/dashboard/farmacia/admin", Label: "Panel Farmacia", Icon: "pill"},
				Link{Href: "/dashboard/farmacia/admin/usuarios/registrar", Label: "Registrar Usuarios", Icon: "user-plus"},
			)
		} else {
			links = append(links, Link{Href: "/dashboard/farmacia", Label: "Panel Farmacia", Icon: "pill"})
		}
	case models.DepartmentMedical:
		if admin {
			links = append(links,
				Link{Href: "/dashboard/servicios-medicos/admin", Label: "Panel Médico", Icon: "stethoscope"},
				Link{Href: "/dashboard/servicios-medicos/admin/usuarios/registrar", Label: "Registrar Usuarios", Icon: "user-plus"},
			)
		} else {
			links = append(links, Link{Href: "/dashboard/servicios-medicos", Label: "Panel Médico", Icon: "stethoscope"})
		}
	}

	return links
}
