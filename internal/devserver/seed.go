package devserver

import (
	"context"
	"fmt"
	"time"

	"github.com/gravitrone/reqdesk/internal/api"
)

// Seed fills an empty store with demo lookups and requests. It is a no-op
// when requests already exist.
func Seed(ctx context.Context, s *Store, now time.Time) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM requests`).Scan(&n); err != nil {
		return fmt.Errorf("failed to count requests: %w", err)
	}
	if n > 0 {
		return nil
	}

	managers := []api.Option{{ID: 11, Title: "Ada Lovelace"}, {ID: 12, Title: "Grace Hopper"}, {ID: 13, Title: "Ken Thompson"}}
	for _, m := range managers {
		if err := s.AddManager(ctx, m.ID, m.Title); err != nil {
			return err
		}
	}

	types := []api.Option{{ID: 1, Title: "Hardware"}, {ID: 2, Title: "Software"}, {ID: 3, Title: "Access"}}
	for _, t := range types {
		if err := s.AddRequestType(ctx, t.ID, t.Title); err != nil {
			return err
		}
	}

	for _, area := range []string{"IT", "HR", "Facilities", "Finance"} {
		if err := s.AddChoice(ctx, api.RequestsList, "RequestArea", area); err != nil {
			return err
		}
	}

	terms := map[string]api.Term{}
	for _, label := range []string{"Urgent", "Onboarding", "Laptop", "Network", "Licence"} {
		t, err := s.AddTerm(ctx, TagsTermSet, label)
		if err != nil {
			return err
		}
		terms[label] = t
	}
	tags := func(labels ...string) []api.Tag {
		out := make([]api.Tag, 0, len(labels))
		for _, l := range labels {
			out = append(out, api.Tag{TermGUID: terms[l].ID, Label: l})
		}
		return out
	}
	manager := 12
	day := func(offset int) time.Time {
		y, m, d := now.AddDate(0, 0, offset).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	}

	requests := []api.Request{
		{
			Title: "New laptop for Sam", Description: "Onboarding kit for the new analyst.",
			DueDate: day(10), RequestTypeID: 1, RequestArea: "IT",
			Tags: tags("Onboarding", "Laptop"), Status: api.StatusNew,
		},
		{
			Title: "VPN access", Description: "Remote access for the audit week.",
			DueDate: day(5), ManagerID: &manager, RequestTypeID: 3, RequestArea: "IT",
			Tags: tags("Network", "Urgent"), Status: api.StatusInProgress,
		},
		{
			Title: "Design tool licence", Description: "",
			DueDate: day(21), RequestTypeID: 2, RequestArea: "Finance",
			Tags: tags("Licence"), Status: api.StatusNew,
		},
	}
	for _, r := range requests {
		if _, err := s.CreateRequest(ctx, r); err != nil {
			return err
		}
	}
	return nil
}
