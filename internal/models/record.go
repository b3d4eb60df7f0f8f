package models

import (
	"time"

	"github.com/google/uuid"
)

// Column is one writable column and its current value.
type Column struct {
	Name  string
	Value any
}

// Record is implemented by every persisted entity. Columns lists the writable
// columns in a fixed order; id, tenant_id and timestamps are managed by the
// repository and never appear there.
type Record interface {
	RecordID() uuid.UUID
	SetRecordID(id uuid.UUID)
	SetTimestamps(createdAt, updatedAt time.Time)
	Columns() []Column
}

// RecordPtr constrains a generic type parameter to a pointer to a Record.
type RecordPtr[T any] interface {
	*T
	Record
}

// TenantOwned is a record scoped to exactly one tenant.
type TenantOwned interface {
	Record
	OwnerID() uuid.UUID
	SetOwner(tenantID uuid.UUID)
}

// ServerManaged is a record with columns that only the server may write.
// ResetManaged clears them before a client-built record is persisted.
type ServerManaged interface {
	ResetManaged()
}

// Stateful is a record carrying a workflow status.
type Stateful interface {
	CurrentStatus() string
	SetStatus(status string)
}

// Base carries the columns shared by all records.
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (b *Base) RecordID() uuid.UUID { return b.ID }

func (b *Base) SetRecordID(id uuid.UUID) { b.ID = id }

func (b *Base) SetTimestamps(createdAt, updatedAt time.Time) {
	b.CreatedAt = createdAt
	b.UpdatedAt = updatedAt
}

// TenantBase is Base plus the owning tenant.
type TenantBase struct {
	Base
	TenantID uuid.UUID `json:"tenant_id" db:"tenant_id"`
}

func (b *TenantBase) OwnerID() uuid.UUID { return b.TenantID }

func (b *TenantBase) SetOwner(tenantID uuid.UUID) { b.TenantID = tenantID }
