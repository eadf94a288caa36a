package model

import (
	"time"
)

type RentalStatus string

const (
	RentalActive    RentalStatus = "ACTIVO"
	RentalCompleted RentalStatus = "COMPLETADO"
	RentalCancelled RentalStatus = "CANCELADO"
)

type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "DISPONIBLE"
	VehicleRented      VehicleStatus = "ALQUILADO"
	VehicleMaintenance VehicleStatus = "MANTENIMIENTO"
	VehicleInactive    VehicleStatus = "INACTIVO"
)

// Rental is one booking of one vehicle by one client, registered by a user.
// estado=ACTIVO holds exactly while fecha_devolucion_real and kilometraje_fin
// are null; activo is the soft-delete flag, independent of estado.
type Rental struct {
	ID            int64        `json:"id" db:"id"`
	RentalUid     string       `json:"alquilerUid" db:"alquiler_uid"`
	ClientID      int64        `json:"clienteId" db:"cliente_id"`
	VehicleID     int64        `json:"vehiculoId" db:"vehiculo_id"`
	UserID        int64        `json:"usuarioId" db:"usuario_id"`
	StartDate     time.Time    `json:"fechaInicio" db:"fecha_inicio"`
	EstimatedEnd  time.Time    `json:"fechaFinEstimada" db:"fecha_fin_estimada"`
	ActualReturn  *time.Time   `json:"fechaDevolucionReal,omitempty" db:"fecha_devolucion_real"`
	TotalPrice    float64      `json:"precioTotal" db:"precio_total"`
	Status        RentalStatus `json:"estado" db:"estado"`
	StartOdometer int          `json:"kilometrajeInicio" db:"kilometraje_inicio"`
	EndOdometer   *int         `json:"kilometrajeFin,omitempty" db:"kilometraje_fin"`
	Notes         string       `json:"observaciones,omitempty" db:"observaciones"`
	Active        bool         `json:"activo" db:"activo"`
	CreatedAt     time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time    `json:"updatedAt" db:"updated_at"`
}

type Vehicle struct {
	ID          int64         `json:"id" db:"id"`
	Marca       string        `json:"marca" db:"marca"`
	Modelo      string        `json:"modelo" db:"modelo"`
	Placa       string        `json:"placa" db:"placa"`
	Status      VehicleStatus `json:"estado" db:"estado"`
	PricePerDay float64       `json:"precioPorDia" db:"precio_por_dia"`
	Odometer    int           `json:"kilometraje" db:"kilometraje"`
	Active      bool          `json:"activo" db:"activo"`
}

type Client struct {
	ID            int64      `json:"id" db:"id"`
	Nombre        string     `json:"nombre" db:"nombre"`
	Apellido      string     `json:"apellido,omitempty" db:"apellido"`
	DniRuc        string     `json:"dniRuc" db:"dni_ruc"`
	Telefono      string     `json:"telefono" db:"telefono"`
	LicenseExpiry *time.Time `json:"licenciaVencimiento,omitempty" db:"licencia_vencimiento"`
	Active        bool       `json:"activo" db:"activo"`
}

func (c Client) FullName() string {
	if c.Apellido != "" {
		return c.Nombre + " " + c.Apellido
	}
	return c.Nombre
}

type User struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	FullName string `json:"nombreCompleto" db:"nombre_completo"`
	Role     string `json:"rol" db:"rol"`
}

type CreateRentalRequest struct {
	ClientID      int64     `json:"clienteId" validate:"required"`
	VehicleID     int64     `json:"vehiculoId" validate:"required"`
	StartDate     time.Time `json:"fechaInicio" validate:"required"`
	EstimatedEnd  time.Time `json:"fechaFinEstimada" validate:"required"`
	StartOdometer int       `json:"kilometrajeInicio" validate:"gte=0"`
	Notes         string    `json:"observaciones,omitempty" validate:"max=500"`
}

type ReturnRentalRequest struct {
	ActualReturn time.Time `json:"fechaDevolucion" validate:"required"`
	EndOdometer  int       `json:"kilometrajeFin" validate:"gte=0"`
	Notes        string    `json:"observaciones,omitempty" validate:"max=500"`
}

// ClientInfo, VehicleInfo, UserInfo are the denormalized snapshots attached
// to rental responses for display.
type ClientInfo struct {
	ID       int64  `json:"id" db:"c_id"`
	FullName string `json:"nombreCompleto" db:"c_nombre_completo"`
	DniRuc   string `json:"dniRuc" db:"c_dni_ruc"`
	Telefono string `json:"telefono" db:"c_telefono"`
}

type VehicleInfo struct {
	ID          int64   `json:"id" db:"v_id"`
	Marca       string  `json:"marca" db:"v_marca"`
	Modelo      string  `json:"modelo" db:"v_modelo"`
	Placa       string  `json:"placa" db:"v_placa"`
	PricePerDay float64 `json:"precioPorDia" db:"v_precio_por_dia"`
}

type UserInfo struct {
	ID       int64  `json:"id" db:"u_id"`
	FullName string `json:"nombreCompleto" db:"u_nombre_completo"`
}

type RentalResponse struct {
	Rental
	Cliente  ClientInfo  `json:"cliente"`
	Vehiculo VehicleInfo `json:"vehiculo"`
	Usuario  UserInfo    `json:"usuario"`
}

type RentalFilter struct {
	Status    *RentalStatus
	ClientID  *int64
	VehicleID *int64
	UserID    *int64
	From      *time.Time
	To        *time.Time
	Active    *bool
	Page      int
	Size      int
}

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

type ListRentals struct {
	Paging
	Items []RentalResponse `json:"items"`
}

type RentalEvent struct {
	Type      string    `json:"type"`
	RentalID  int64     `json:"alquilerId"`
	RentalUid string    `json:"alquilerUid"`
	VehicleID int64     `json:"vehiculoId"`
	ClientID  int64     `json:"clienteId"`
	At        time.Time `json:"at"`
}
