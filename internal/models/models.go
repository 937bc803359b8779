package models

import "time"

// Account represents a registered user of the journal
type Account struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedOn    time.Time `json:"createdOn"`
}

// AccountSummary is the public part of an account returned on register and login
type AccountSummary struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// Summary returns the public part of the account
func (a *Account) Summary() AccountSummary {
	return AccountSummary{FullName: a.FullName, Email: a.Email}
}

// TravelStory represents a single journal entry owned by one account
type TravelStory struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Story           string    `json:"story"`
	VisitedLocation string    `json:"visitedLocation"`
	ImageURL        string    `json:"imageUrl"`
	VisitedDate     time.Time `json:"visitedDate"`
	UserID          string    `json:"userId"`
	IsFavourite     bool      `json:"isFavourite"`
	CreatedOn       time.Time `json:"createdOn"`
}
