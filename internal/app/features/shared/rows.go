// internal/app/features/shared/rows.go
//
// Package shared holds the request-row view model and its template, used by
// the home, dashboard, and request listing pages.
package shared

import (
	"context"
	"time"

	categorystore "github.com/dalemusser/ksef/internal/app/store/categories"
	userstore "github.com/dalemusser/ksef/internal/app/store/users"
	"github.com/dalemusser/ksef/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequestRow is one service request as rendered in a list.
type RequestRow struct {
	ID            string
	Title         string
	Status        string
	StatusLabel   string
	Priority      string
	PriorityLabel string
	CategoryName  string
	RequesterName string
	VolunteerName string
	Location      string
	CreatedAt     time.Time
}

// RowBuilder resolves category and user names for request rows.
type RowBuilder struct {
	Categories *categorystore.Store
	Users      *userstore.Store
}

// Rows converts reqs to rows, preserving order. Requests whose category
// was deleted show no category name.
func (b RowBuilder) Rows(ctx context.Context, reqs []models.ServiceRequest) ([]RequestRow, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	catNames, err := b.Categories.NamesByID(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[primitive.ObjectID]struct{})
	var userIDs []primitive.ObjectID
	addUser := func(id primitive.ObjectID) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			userIDs = append(userIDs, id)
		}
	}
	for _, req := range reqs {
		addUser(req.RequesterID)
		if req.VolunteerID != nil {
			addUser(*req.VolunteerID)
		}
	}
	userNames, err := b.Users.NamesByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	rows := make([]RequestRow, 0, len(reqs))
	for _, req := range reqs {
		row := RequestRow{
			ID:            req.ID.Hex(),
			Title:         req.Title,
			Status:        req.Status,
			StatusLabel:   models.StatusLabel(req.Status),
			Priority:      req.Priority,
			PriorityLabel: models.PriorityLabel(req.Priority),
			RequesterName: userNames[req.RequesterID],
			Location:      req.Location,
			CreatedAt:     req.CreatedAt,
		}
		if req.CategoryID != nil {
			row.CategoryName = catNames[*req.CategoryID]
		}
		if req.VolunteerID != nil {
			row.VolunteerName = userNames[*req.VolunteerID]
		}
		rows = append(rows, row)
	}
	return rows, nil
}
