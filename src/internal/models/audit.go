package models

import "time"

// AuditEntry records one admin back-office mutation in MongoDB.
type AuditEntry struct {
	ActorID    string    `bson:"actor_id" json:"actorId"`
	ActorEmail string    `bson:"actor_email" json:"actorEmail"`
	Action     string    `bson:"action" json:"action"`
	Resource   string    `bson:"resource" json:"resource"`
	ResourceID string    `bson:"resource_id,omitempty" json:"resourceId,omitempty"`
	Detail     string    `bson:"detail,omitempty" json:"detail,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
}

// Audit action constants
const (
	AuditActionCreate       = "create"
	AuditActionUpdate       = "update"
	AuditActionDelete       = "delete"
	AuditActionStatusChange = "status-change"
	AuditActionUpload       = "upload"
)
