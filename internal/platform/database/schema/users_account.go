// Copyright (c) 2026 Atmos. All rights reserved.
// Author: devhammad

// Package schema declares column-name references for every table the
// repositories query, so identifier changes happen in exactly one place.
package schema

// UsersAccountTable represents the 'users.account' table
type UsersAccountTable struct {
	Table            string
	ID               string
	Name             string
	Email            string
	PasswordHash     string
	Role             string
	ResetToken       string
	ResetTokenExpiry string
	CreatedAt        string
	UpdatedAt        string
}

// UsersAccount is the schema definition for users.account
var UsersAccount = UsersAccountTable{
	Table:            "users.account",
	ID:               "id",
	Name:             "name",
	Email:            "email",
	PasswordHash:     "passwordhash",
	Role:             "role",
	ResetToken:       "resettoken",
	ResetTokenExpiry: "resettokenexpiry",
	CreatedAt:        "createdat",
	UpdatedAt:        "updatedat",
}

func (t UsersAccountTable) Columns() []string {
	return []string{t.ID, t.Name, t.Email, t.PasswordHash, t.Role, t.ResetToken, t.ResetTokenExpiry, t.CreatedAt, t.UpdatedAt}
}
