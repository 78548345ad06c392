package models

import "time"

type RequestState string

const (
	RequestPending  RequestState = "pendiente"
	RequestApproved RequestState = "aprobado"
	RequestRejected RequestState = "rechazado"
)

type Person struct {
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Cedula    string `json:"cedula"`
	Phone     string `json:"telefono"`
	Age       string `json:"edad"`
}

type RequestItem struct {
	ID       string `json:"id"`
	Name     string `json:"nombre"`
	Quantity int    `json:"cantidad"`
}

// Request is a help request under review: requester and beneficiary profiles
// plus an ordered collection of line items.
type Request struct {
	ID          string        `json:"id"`
	Requester   Person        `json:"solicitante"`
	Beneficiary Person        `json:"beneficiario"`
	Items       []RequestItem `json:"items"`
	State       RequestState  `json:"estado"`
	RequestedAt time.Time     `json:"fechaSolicitud"`
}

type InventoryState string

const (
	InventoryAvailable InventoryState = "Disponible"
	InventoryInUse     InventoryState = "En uso"
	InventoryToDeliver InventoryState = "Por entregar"
	InventoryRetired   InventoryState = "Dado de baja"
)

type InventoryItem struct {
	ID       string         `json:"id"`
	Name     string         `json:"nombre"`
	Category string         `json:"categoria"`
	State    InventoryState `json:"estado"`
	Quantity int            `json:"cantidad"`
}
