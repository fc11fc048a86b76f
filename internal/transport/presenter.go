package transport

import (
	"context"

	"github.com/letzcode/letzcode-server/internal/domain/project"
	"github.com/letzcode/letzcode-server/internal/domain/user"
)

// projectView is a project with account ids resolved to public cards.
type projectView struct {
	*project.Project
	Owner        user.Summary   `json:"owner"`
	Members      []user.Summary `json:"members"`
	CheckedOutBy *user.Summary  `json:"checkedOutBy"`
	Files        []fileView     `json:"files"`
	CheckIns     []checkInView  `json:"checkIns"`
}

type fileView struct {
	project.FileRecord
	UploadedBy user.Summary `json:"uploadedBy"`
}

type checkInView struct {
	project.CheckIn
	User  user.Summary `json:"user"`
	Files []fileView   `json:"files"`
}

// projectSummaryView is a listing entry with account ids resolved.
type projectSummaryView struct {
	project.Summary
	Owner        user.Summary   `json:"owner"`
	Members      []user.Summary `json:"members"`
	CheckedOutBy *user.Summary  `json:"checkedOutBy"`
}

// cards resolves account ids. Deleted accounts keep a card carrying only
// their id.
type cards map[string]user.Summary

func (c cards) get(id string) user.Summary {
	if s, ok := c[id]; ok {
		return s
	}
	return user.Summary{ID: id}
}

func (c cards) list(ids []string) []user.Summary {
	out := make([]user.Summary, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.get(id))
	}
	return out
}

func (c cards) optional(id *string) *user.Summary {
	if id == nil {
		return nil
	}
	s := c.get(*id)
	return &s
}

func (s *Server) loadCards(ctx context.Context, ids []string) (cards, error) {
	seen := make(map[string]bool, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	return s.users.Summaries(ctx, unique)
}

func (s *Server) presentProject(ctx context.Context, p *project.Project) (*projectView, error) {
	ids := append([]string{p.OwnerID}, p.Members...)
	if p.CheckedOutBy != nil {
		ids = append(ids, *p.CheckedOutBy)
	}
	for _, f := range p.Files {
		ids = append(ids, f.UploadedBy)
	}
	for _, ci := range p.CheckIns {
		ids = append(ids, ci.UserID)
		for _, f := range ci.Files {
			ids = append(ids, f.UploadedBy)
		}
	}

	c, err := s.loadCards(ctx, ids)
	if err != nil {
		return nil, err
	}

	view := &projectView{
		Project:      p,
		Owner:        c.get(p.OwnerID),
		Members:      c.list(p.Members),
		CheckedOutBy: c.optional(p.CheckedOutBy),
		Files:        presentFiles(c, p.Files),
		CheckIns:     make([]checkInView, 0, len(p.CheckIns)),
	}
	for _, ci := range p.CheckIns {
		view.CheckIns = append(view.CheckIns, checkInView{
			CheckIn: ci,
			User:    c.get(ci.UserID),
			Files:   presentFiles(c, ci.Files),
		})
	}
	return view, nil
}

func presentFiles(c cards, files []project.FileRecord) []fileView {
	out := make([]fileView, 0, len(files))
	for _, f := range files {
		out = append(out, fileView{FileRecord: f, UploadedBy: c.get(f.UploadedBy)})
	}
	return out
}

func (s *Server) presentSummaries(ctx context.Context, list []project.Summary) ([]projectSummaryView, error) {
	var ids []string
	for _, p := range list {
		ids = append(ids, p.OwnerID)
		ids = append(ids, p.Members...)
		if p.CheckedOutBy != nil {
			ids = append(ids, *p.CheckedOutBy)
		}
	}

	c, err := s.loadCards(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]projectSummaryView, 0, len(list))
	for _, p := range list {
		out = append(out, projectSummaryView{
			Summary:      p,
			Owner:        c.get(p.OwnerID),
			Members:      c.list(p.Members),
			CheckedOutBy: c.optional(p.CheckedOutBy),
		})
	}
	return out, nil
}
