// Package seed fills an empty database with demo accounts, friendships and
// projects that have a short check-in history.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/letzcode/letzcode-server/internal/domain/project"
	"github.com/letzcode/letzcode-server/internal/domain/user"
)

// ErrAlreadySeeded is returned when the demo account already exists.
var ErrAlreadySeeded = errors.New("database already seeded")

// DemoEmail and DemoPassword sign in to the demo account.
const (
	DemoEmail    = "test@test.com"
	DemoPassword = "test1234"
	// MemberPassword is shared by every other seeded account.
	MemberPassword = "password123"
)

type account struct {
	email, username, password string
	name, bio, location, work string
	website                   string
}

var accounts = []account{
	{DemoEmail, "testuser", DemoPassword, "Test User", "This is a test account for development and demo purposes", "Pretoria, South Africa", "Software Developer at TestCorp", "https://github.com/testuser"},
	{"john.doe@example.com", "johndoe", MemberPassword, "John Doe", "Full-stack developer passionate about React and Node.js", "Johannesburg, South Africa", "Senior Developer at TechCorp", ""},
	{"jane.smith@example.com", "janesmith", MemberPassword, "Jane Smith", "Frontend developer specializing in React and Vue.js", "Cape Town, South Africa", "Lead Developer at WebSolutions", ""},
	{"mike.johnson@example.com", "mikejohnson", MemberPassword, "Mike Johnson", "Backend engineer with expertise in Python and MongoDB", "Durban, South Africa", "Backend Engineer at DataFlow", ""},
	{"sarah.williams@example.com", "sarahwilliams", MemberPassword, "Sarah Williams", "UI/UX designer and frontend developer", "Pretoria, South Africa", "Design Lead at CreativeHub", ""},
	{"david.brown@example.com", "davidbrown", MemberPassword, "David Brown", "DevOps engineer and cloud architect", "Port Elizabeth, South Africa", "DevOps Engineer at CloudTech", ""},
}

var projects = []project.CreateRequest{
	{Name: "Sample React App", Description: "A sample React application for testing the LetzCode platform", Type: project.TypeWebApplication, Languages: []string{"JavaScript", "React", "CSS"}},
	{Name: "E-Commerce Platform", Description: "Full-featured e-commerce platform with cart, checkout, and payment integration", Type: project.TypeWebApplication, Languages: []string{"JavaScript", "React", "Node.js", "MongoDB"}},
	{Name: "Task Management System", Description: "Collaborative task management tool with real-time updates", Type: project.TypeWebApplication, Languages: []string{"TypeScript", "React", "Express", "PostgreSQL"}},
	{Name: "Mobile Fitness Tracker", Description: "Cross-platform mobile app for tracking fitness activities", Type: project.TypeMobileApplication, Languages: []string{"React Native", "JavaScript", "Firebase"}},
	{Name: "Data Visualization Dashboard", Description: "Interactive dashboard for visualizing complex datasets", Type: project.TypeWebApplication, Languages: []string{"Python", "Flask", "D3.js", "React"}},
	{Name: "Chat Application", Description: "Real-time chat application with video call support", Type: project.TypeWebApplication, Languages: []string{"JavaScript", "Socket.io", "WebRTC", "Node.js"}},
}

var checkInMessages = []string{
	"Fixed critical bug in authentication",
	"Added new feature for user dashboard",
	"Improved performance and optimization",
	"Updated dependencies and security patches",
	"Refactored code for better maintainability",
}

// Stats counts what a run created.
type Stats struct {
	Users    int
	Projects int
	CheckIns int
}

// Seeder writes demo data through the domain services, so every record
// passes the same validation and ledger path as live traffic.
type Seeder struct {
	users    *user.Service
	projects *project.Service
	logger   *slog.Logger
}

func New(users *user.Service, projects *project.Service, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{users: users, projects: projects, logger: logger}
}

// Run seeds the database once. Each account i is friends with i+1 (in a
// ring); project i is owned by account i with its two ring neighbours as
// members, and each member takes one check-out/check-in turn.
func (s *Seeder) Run(ctx context.Context) (Stats, error) {
	var stats Stats

	ids := make([]string, len(accounts))
	for i, a := range accounts {
		res, err := s.users.SignUp(ctx, user.SignUpRequest{Email: a.email, Username: a.username, Password: a.password})
		if err != nil {
			if i == 0 && errors.Is(err, user.ErrEmailTaken) {
				return stats, ErrAlreadySeeded
			}
			return stats, fmt.Errorf("creating %s: %w", a.username, err)
		}
		ids[i] = res.User.ID

		profile := user.ProfileUpdate{Name: &a.name, Bio: &a.bio, Location: &a.location, Work: &a.work}
		if a.website != "" {
			profile.Website = &a.website
		}
		if _, err := s.users.UpdateProfile(ctx, res.User.ID, profile); err != nil {
			return stats, fmt.Errorf("completing profile for %s: %w", a.username, err)
		}
		stats.Users++
	}

	for i := range ids {
		next := ids[(i+1)%len(ids)]
		if err := s.users.SendFriendRequest(ctx, ids[i], next); err != nil {
			return stats, fmt.Errorf("sending friend request: %w", err)
		}
		if _, err := s.users.AcceptFriendRequest(ctx, next, ids[i]); err != nil {
			return stats, fmt.Errorf("accepting friend request: %w", err)
		}
	}

	for i, req := range projects {
		owner := ids[i%len(ids)]
		req.Files = []project.FileInput{{Name: "README.md", Size: "3.2 KB"}, {Name: "package.json", Size: "1.5 KB"}}
		p, err := s.projects.Create(ctx, owner, req)
		if err != nil {
			return stats, fmt.Errorf("creating project %q: %w", req.Name, err)
		}
		stats.Projects++

		turns := []string{owner}
		for _, offset := range []int{1, len(ids) - 1} {
			member := ids[(i+offset)%len(ids)]
			if _, err := s.projects.AddMember(ctx, p.ID, owner, member); err != nil {
				return stats, fmt.Errorf("adding member to %q: %w", req.Name, err)
			}
			turns = append(turns, member)
		}

		for k, member := range turns {
			if _, err := s.projects.CheckOut(ctx, p.ID, member); err != nil {
				return stats, fmt.Errorf("checking out %q: %w", req.Name, err)
			}
			_, err := s.projects.CheckIn(ctx, p.ID, member, project.CheckInRequest{
				Message: checkInMessages[(i+k)%len(checkInMessages)],
				Version: fmt.Sprintf("1.%d.0", k+1),
			})
			if err != nil {
				return stats, fmt.Errorf("checking in %q: %w", req.Name, err)
			}
			stats.CheckIns++
		}
	}

	s.logger.Info("database seeded", "users", stats.Users, "projects", stats.Projects, "check_ins", stats.CheckIns)
	return stats, nil
}
