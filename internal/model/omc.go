package model

import "time"

// OMC represents an oil marketing company, the top of the ownership
// hierarchy.  An OMC owns its product catalog and its stations.
//
// Fields:
//  ID            – primary key identifier.
//  Name          – unique company name.
//  Location      – head-office location.
//  Logo          – stored logo path, if any.
//  ContactPerson – primary contact name.
//  Contact       – contact phone number.
//  Email         – contact email.
//  DeletedAt     – soft-delete marker (NULL = active).
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type OMC struct {
	ID            uint64
	Name          string
	Location      *string
	Logo          *string
	ContactPerson *string
	Contact       *string
	Email         *string
	DeletedAt     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
