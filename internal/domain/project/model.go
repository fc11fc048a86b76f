package project

import (
	"slices"
	"time"
)

// Status is the project's lock state
type Status string

const (
	StatusCheckedIn  Status = "checked-in"
	StatusCheckedOut Status = "checked-out"
)

// Type classifies a project
type Type string

const (
	TypeWebApplication     Type = "Web Application"
	TypeMobileApplication  Type = "Mobile Application"
	TypeDesktopApplication Type = "Desktop Application"
	TypeLibrary            Type = "Library"
	TypeFramework          Type = "Framework"
	TypeAPI                Type = "API"
	TypeGame               Type = "Game"
	TypeOther              Type = "Other"
)

// Valid reports whether t is one of the known project types.
func (t Type) Valid() bool {
	switch t {
	case TypeWebApplication, TypeMobileApplication, TypeDesktopApplication,
		TypeLibrary, TypeFramework, TypeAPI, TypeGame, TypeOther:
		return true
	}
	return false
}

const (
	DefaultVersion = "1.0.0"
	DefaultImage   = "/placeholder.svg"
)

// FileRecord is file metadata attached to a project. Contents are not stored.
type FileRecord struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Size       string    `json:"size"`
	Path       string    `json:"path"`
	UploadedBy string    `json:"uploadedBy"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// CheckIn is one immutable history entry written when the lock is returned
type CheckIn struct {
	ID        int64        `json:"id"`
	UserID    string       `json:"user"`
	Message   string       `json:"message"`
	Version   string       `json:"version"`
	Files     []FileRecord `json:"files"`
	Timestamp time.Time    `json:"timestamp"`
}

// Project is the aggregate guarded by the checkout lock.
// CheckedOutBy is non-nil iff Status is StatusCheckedOut.
type Project struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	OwnerID      string       `json:"owner"`
	Members      []string     `json:"members"`
	Languages    []string     `json:"languages"`
	Type         Type         `json:"type"`
	Version      string       `json:"version"`
	Status       Status       `json:"status"`
	CheckedOutBy *string      `json:"checkedOutBy"`
	Image        string       `json:"image"`
	Files        []FileRecord `json:"files"`
	CheckIns     []CheckIn    `json:"checkIns"`
	CreatedAt    time.Time    `json:"createdAt"`
	LastUpdated  time.Time    `json:"lastUpdated"`
}

// IsOwner reports whether userID owns the project.
func (p *Project) IsOwner(userID string) bool {
	return p.OwnerID == userID
}

// IsMember reports whether userID is in the member set.
func (p *Project) IsMember(userID string) bool {
	return slices.Contains(p.Members, userID)
}

// IsHeldBy reports whether userID currently holds the lock.
func (p *Project) IsHeldBy(userID string) bool {
	return p.Status == StatusCheckedOut && p.CheckedOutBy != nil && *p.CheckedOutBy == userID
}

// Summary is the listing view of a project, with counts instead of lists.
type Summary struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	OwnerID       string    `json:"owner"`
	Members       []string  `json:"members"`
	Languages     []string  `json:"languages"`
	Type          Type      `json:"type"`
	Version       string    `json:"version"`
	Status        Status    `json:"status"`
	CheckedOutBy  *string   `json:"checkedOutBy"`
	Image         string    `json:"image"`
	FilesCount    int       `json:"filesCount"`
	CheckInsCount int       `json:"checkInsCount"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

// Summary returns the listing view of the project.
func (p *Project) Summary() Summary {
	return Summary{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		OwnerID:       p.OwnerID,
		Members:       p.Members,
		Languages:     p.Languages,
		Type:          p.Type,
		Version:       p.Version,
		Status:        p.Status,
		CheckedOutBy:  p.CheckedOutBy,
		Image:         p.Image,
		FilesCount:    len(p.Files),
		CheckInsCount: len(p.CheckIns),
		CreatedAt:     p.CreatedAt,
		LastUpdated:   p.LastUpdated,
	}
}
