package domain

import "time"

type SavedComponent struct {
	ID          string      `json:"id"`
	RefID       string      `json:"refId"`
	Name        string      `json:"name"`
	StyleParams StyleParams `json:"styleParams"`
	SavedAt     time.Time   `json:"savedAt"`
}

type Collection struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Components  []SavedComponent `json:"components"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type CollectionStore interface {
	CreateCollection(c *Collection) error
	GetCollection(id string) (*Collection, error)
	ListCollections() ([]Collection, error)
	UpdateCollection(c *Collection) error
	DeleteCollection(id string) error

	AddComponent(collectionID string, sc *SavedComponent) error
	UpdateComponent(collectionID string, sc *SavedComponent) error
	RemoveComponent(collectionID, componentID string) error
}
