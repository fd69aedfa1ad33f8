// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
// - base.go: BaseModel shared by uuid-keyed tables
// - memory_card.go: memory_cards (string primary key, dates kept as dd/mm/yyyy text)
// - payment.go: payments opened by checkout sessions
// - identity.go: users and profiles
package models
