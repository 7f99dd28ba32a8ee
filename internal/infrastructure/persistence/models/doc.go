// Package models contains the GORM persistence models for the customers table.
// They are kept apart from the domain types so that the domain stays free of
// ORM tags; ToDomain and FromDomain convert between the two.
package models
