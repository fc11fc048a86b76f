package project_test

import (
	"context"
	"testing"

	"github.com/letzcode/letzcode-server/internal/domain/activity"
	"github.com/letzcode/letzcode-server/internal/domain/project"
	"github.com/letzcode/letzcode-server/internal/domain/user"
	"github.com/letzcode/letzcode-server/internal/repository"
	"github.com/letzcode/letzcode-server/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	repo   *mocks.ProjectRepository
	users  *mocks.UserRepository
	ledger *mocks.Ledger
	svc    *project.Service
}

func newFixture() *fixture {
	f := &fixture{
		repo:   &mocks.ProjectRepository{},
		users:  &mocks.UserRepository{},
		ledger: &mocks.Ledger{},
	}
	f.svc = project.NewService(f.repo, f.users, f.ledger, nil, nil)
	return f
}

func sampleProject() *project.Project {
	return &project.Project{
		ID:          "proj1",
		Name:        "Demo",
		Description: "demo project",
		OwnerID:     "owner",
		Members:     []string{"owner", "alice", "bob"},
		Type:        project.TypeLibrary,
		Version:     "1.0.0",
		Status:      project.StatusCheckedIn,
	}
}

func checkedOutBy(p *project.Project, holder string) *project.Project {
	p.Status = project.StatusCheckedOut
	p.CheckedOutBy = &holder
	return p
}

func entryOf(typ activity.Type) any {
	return mock.MatchedBy(func(e *activity.Entry) bool { return e.Type == typ })
}

func TestProjectService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.svc.Create(ctx, "owner", project.CreateRequest{Name: "", Description: "d", Type: project.TypeAPI})
	require.ErrorIs(t, err, project.ErrMissingFields)

	_, err = f.svc.Create(ctx, "owner", project.CreateRequest{Name: "n", Description: "d", Type: "Spreadsheet"})
	require.ErrorIs(t, err, project.ErrInvalidType)
}

func TestProjectService_CreateDefaults(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.repo.On("Create", ctx, mock.AnythingOfType("*project.Project")).Return(nil)
	f.ledger.On("Append", ctx, entryOf(activity.TypeCreate)).Return(nil)
	f.ledger.On("Announce", ctx, mock.Anything).Return()

	proj, err := f.svc.Create(ctx, "owner", project.CreateRequest{
		Name:        "Demo",
		Description: "demo project",
		Type:        project.TypeWebApplication,
		Files:       []project.FileInput{{Name: "main.go", Size: "1 KB"}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, proj.ID)
	require.Equal(t, []string{"owner"}, proj.Members)
	require.Equal(t, project.DefaultVersion, proj.Version)
	require.Equal(t, project.StatusCheckedIn, proj.Status)
	require.Nil(t, proj.CheckedOutBy)
	require.Empty(t, proj.Languages)
	require.Len(t, proj.Files, 1)
	require.Equal(t, "/main.go", proj.Files[0].Path)
	require.Equal(t, "owner", proj.Files[0].UploadedBy)
	f.ledger.AssertExpectations(t)
}

func TestProjectService_CheckOut(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.repo.On("Get", ctx, "proj1").Return(sampleProject(), nil)
	f.repo.On("MarkCheckedOut", ctx, "proj1", "alice", mock.Anything).Return(nil)
	f.ledger.On("Append", ctx, mock.MatchedBy(func(e *activity.Entry) bool {
		return e.Type == activity.TypeCheckOut && e.UserID == "alice" && e.Message == "Checked out project"
	})).Return(nil)
	f.ledger.On("Announce", ctx, mock.Anything).Return()

	proj, err := f.svc.CheckOut(ctx, "proj1", "alice")
	require.NoError(t, err)
	require.Equal(t, project.StatusCheckedOut, proj.Status)
	require.NotNil(t, proj.CheckedOutBy)
	require.Equal(t, "alice", *proj.CheckedOutBy)
	f.ledger.AssertExpectations(t)
}

func TestProjectService_CheckOutFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("project not found", func(t *testing.T) {
		f := newFixture()
		f.repo.On("Get", ctx, "missing").Return(nil, repository.ErrNotFound)
		_, err := f.svc.CheckOut(ctx, "missing", "alice")
		require.ErrorIs(t, err, project.ErrProjectNotFound)
	})

	t.Run("not a member", func(t *testing.T) {
		f := newFixture()
		f.repo.On("Get", ctx, "proj1").Return(sampleProject(), nil)
		_, err := f.svc.CheckOut(ctx, "proj1", "mallory")
		require.ErrorIs(t, err, project.ErrNotAMember)
	})

	t.Run("held by another member", func(t *testing.T) {
		f := newFixture()
		f.repo.On("Get", ctx, "proj1").Return(checkedOutBy(sampleProject(), "alice"), nil)
		_, err := f.svc.CheckOut(ctx, "proj1", "bob")
		require.ErrorIs(t, err, project.ErrAlreadyCheckedOut)
	})

	t.Run("held by the actor", func(t *testing.T) {
		f := newFixture()
		f.repo.On("Get", ctx, "proj1").Return(checkedOutBy(sampleProject(), "alice"), nil)
		_, err := f.svc.CheckOut(ctx, "proj1", "alice")
		require.ErrorIs(t, err, project.ErrAlreadyCheckedOut)
	})

	t.Run("lost race", func(t *testing.T) {
		f := newFixture()
		f.repo.On("Get", ctx, "proj1").Return(sampleProject(), nil)
		f.repo.On("MarkCheckedOut", ctx, "proj1", "bob", mock.Anything).Return(repository.ErrConflict)
		_, err := f.svc.CheckOut(ctx, "proj1", "bob")
		require.ErrorIs(t, err, project.ErrAlreadyCheckedOut)
		f.ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})
}

func TestProjectService_CheckInResolvesVersion(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		version  string
		expected string
	}{
		{name: "explicit version", version: "1.0.1", expected: "1.0.1"},
		{name: "prior version", version: "", expected: "1.0.0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			after := sampleProject()
			after.Version = tc.expected

			f.repo.On("Get", ctx, "proj1").Return(checkedOutBy(sampleProject(), "alice"), nil).Once()
			f.repo.On("Get", ctx, "proj1").Return(after, nil).Once()
			f.repo.On("MarkCheckedIn", ctx, "proj1", "alice", tc.expected, mock.Anything).Return(nil)
			f.repo.On("AppendCheckIn", ctx, "proj1", mock.MatchedBy(func(ci *project.CheckIn) bool {
				return ci.UserID == "alice" && ci.Message == "fixed bug" && ci.Version == tc.expected &&
					len(ci.Files) == 1 && ci.Files[0].UploadedBy == "alice"
			})).Return(nil)
			f.ledger.On("Append", ctx, mock.MatchedBy(func(e *activity.Entry) bool {
				return e.Type == activity.TypeCheckIn && e.Version == tc.expected && e.Message == "fixed bug"
			})).Return(nil)
			f.ledger.On("Announce", ctx, mock.Anything).Return()

			proj, err := f.svc.CheckIn(ctx, "proj1", "alice", project.CheckInRequest{
				Message: "fixed bug",
				Version: tc.version,
				Files:   []project.FileInput{{Name: "fix.go", Size: "2 KB"}},
			})
			require.NoError(t, err)
			require.Equal(t, tc.expected, proj.Version)
			f.repo.AssertExpectations(t)
			f.ledger.AssertExpectations(t)
		})
	}
}

func TestProjectService_CheckInFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("missing message is checked first", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.CheckIn(ctx, "missing", "alice", project.CheckInRequest{Message: "  "})
		require.ErrorIs(t, err, project.ErrMissingMessage)
		f.repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("not checked out", func(t *testing.T) {
		f := newFixture()
		f.repo.On("Get", ctx, "proj1").Return(sampleProject(), nil)
		_, err := f.svc.CheckIn(ctx, "proj1", "alice", project.CheckInRequest{Message: "m"})
		require.ErrorIs(t, err, project.ErrNotCheckedOut)
	})

	t.Run("member without the lock", func(t *testing.T) {
		f := newFixture()
		f.repo.On("Get", ctx, "proj1").Return(checkedOutBy(sampleProject(), "alice"), nil)
		_, err := f.svc.CheckIn(ctx, "proj1", "bob", project.CheckInRequest{Message: "m"})
		require.ErrorIs(t, err, project.ErrNotLockHolder)
	})

	t.Run("owner without the lock", func(t *testing.T) {
		f := newFixture()
		f.repo.On("Get", ctx, "proj1").Return(checkedOutBy(sampleProject(), "alice"), nil)
		_, err := f.svc.CheckIn(ctx, "proj1", "owner", project.CheckInRequest{Message: "m"})
		require.ErrorIs(t, err, project.ErrNotLockHolder)
	})
}

func TestProjectService_AddFilesWritesNoActivity(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.repo.On("Get", ctx, "proj1").Return(sampleProject(), nil)
	f.repo.On("AppendFiles", ctx, "proj1", mock.MatchedBy(func(files []project.FileRecord) bool {
		return len(files) == 2 && files[0].Path == "/a.txt" && files[1].UploadedBy == "bob"
	}), mock.Anything).Return(nil)

	_, err := f.svc.AddFiles(ctx, "proj1", "bob", []project.FileInput{{Name: "a.txt"}, {Name: "b.txt"}})
	require.NoError(t, err)
	f.ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)

	_, err = f.svc.AddFiles(ctx, "proj1", "mallory", []project.FileInput{{Name: "x"}})
	require.ErrorIs(t, err, project.ErrNotAMember)
}

func TestProjectService_AddMember(t *testing.T) {
	ctx := context.Background()
	carol := &user.User{ID: "carol", Name: "Carol"}

	t.Run("user id required", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.AddMember(ctx, "proj1", "owner", "")
		require.ErrorIs(t, err, project.ErrUserIDRequired)
	})

	t.Run("outsider cannot add", func(t *testing.T) {
		f := newFixture()
		f.repo.On("Get", ctx, "proj1").Return(sampleProject(), nil)
		_, err := f.svc.AddMember(ctx, "proj1", "mallory", "carol")
		require.ErrorIs(t, err, project.ErrNotAuthorized)
	})

	t.Run("member can only add friends", func(t *testing.T) {
		f := newFixture()
		f.repo.On("Get", ctx, "proj1").Return(sampleProject(), nil)
		f.users.On("AreFriends", ctx, "alice", "carol").Return(false, nil)
		_, err := f.svc.AddMember(ctx, "proj1", "alice", "carol")
		require.ErrorIs(t, err, project.ErrNotAFriend)
	})

	t.Run("owner adds anyone", func(t *testing.T) {
		f := newFixture()
		f.repo.On("Get", ctx, "proj1").Return(sampleProject(), nil)
		f.users.On("Get", ctx, "carol").Return(carol, nil)
		f.repo.On("AddMember", ctx, "proj1", "carol", mock.Anything).Return(nil)
		f.ledger.On("Append", ctx, mock.MatchedBy(func(e *activity.Entry) bool {
			return e.Type == activity.TypeUpdate && e.Message == "Added Carol to the project"
		})).Return(nil)
		f.ledger.On("Announce", ctx, mock.Anything).Return()

		proj, err := f.svc.AddMember(ctx, "proj1", "owner", "carol")
		require.NoError(t, err)
		require.Contains(t, proj.Members, "carol")
		f.users.AssertNotCalled(t, "AreFriends", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("member adds a friend", func(t *testing.T) {
		f := newFixture()
		f.repo.On("Get", ctx, "proj1").Return(sampleProject(), nil)
		f.users.On("AreFriends", ctx, "alice", "carol").Return(true, nil)
		f.users.On("Get", ctx, "carol").Return(carol, nil)
		f.repo.On("AddMember", ctx, "proj1", "carol", mock.Anything).Return(nil)
		f.ledger.On("Append", ctx, mock.MatchedBy(func(e *activity.Entry) bool {
			return e.Type == activity.TypeUpdate && e.UserID == "alice"
		})).Return(nil)
		f.ledger.On("Announce", ctx, mock.Anything).Return()

		proj, err := f.svc.AddMember(ctx, "proj1", "alice", "carol")
		require.NoError(t, err)
		require.Contains(t, proj.Members, "carol")
		f.repo.AssertCalled(t, "AddMember", ctx, "proj1", "carol", mock.Anything)
		f.ledger.AssertCalled(t, "Append", ctx, mock.Anything)
	})

	t.Run("unknown target", func(t *testing.T) {
		f := newFixture()
		f.repo.On("Get", ctx, "proj1").Return(sampleProject(), nil)
		f.users.On("Get", ctx, "ghost").Return(nil, repository.ErrNotFound)
		_, err := f.svc.AddMember(ctx, "proj1", "owner", "ghost")
		require.ErrorIs(t, err, project.ErrUserNotFound)
	})

	t.Run("already a member", func(t *testing.T) {
		f := newFixture()
		f.repo.On("Get", ctx, "proj1").Return(sampleProject(), nil)
		f.users.On("AreFriends", ctx, "alice", "bob").Return(true, nil)
		f.users.On("Get", ctx, "bob").Return(&user.User{ID: "bob", Name: "Bob"}, nil)
		_, err := f.svc.AddMember(ctx, "proj1", "alice", "bob")
		require.ErrorIs(t, err, project.ErrAlreadyMember)
	})
}

func TestProjectService_RemoveMember(t *testing.T) {
	ctx := context.Background()

	t.Run("owner only", func(t *testing.T) {
		f := newFixture()
		f.repo.On("Get", ctx, "proj1").Return(sampleProject(), nil)
		require.ErrorIs(t, f.svc.RemoveMember(ctx, "proj1", "alice", "bob"), project.ErrNotOwner)
	})

	t.Run("owner cannot be removed", func(t *testing.T) {
		f := newFixture()
		f.repo.On("Get", ctx, "proj1").Return(sampleProject(), nil)
		require.ErrorIs(t, f.svc.RemoveMember(ctx, "proj1", "owner", "owner"), project.ErrCannotRemoveOwner)
	})

	t.Run("lock stays with a removed holder", func(t *testing.T) {
		f := newFixture()
		f.repo.On("Get", ctx, "proj1").Return(checkedOutBy(sampleProject(), "alice"), nil)
		f.repo.On("RemoveMember", ctx, "proj1", "alice", mock.Anything).Return(nil)
		f.users.On("Get", ctx, "alice").Return(nil, repository.ErrNotFound)
		f.ledger.On("Append", ctx, mock.MatchedBy(func(e *activity.Entry) bool {
			return e.Message == "Removed alice from the project"
		})).Return(nil)
		f.ledger.On("Announce", ctx, mock.Anything).Return()

		require.NoError(t, f.svc.RemoveMember(ctx, "proj1", "owner", "alice"))
		f.repo.AssertNotCalled(t, "MarkCheckedIn", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProjectService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("owner deletes while checked out", func(t *testing.T) {
		f := newFixture()
		f.repo.On("Get", ctx, "proj1").Return(checkedOutBy(sampleProject(), "alice"), nil)
		f.ledger.On("DeleteByProject", ctx, "proj1").Return(nil)
		f.repo.On("Delete", ctx, "proj1").Return(nil)

		require.NoError(t, f.svc.Delete(ctx, "proj1", "owner"))
		f.ledger.AssertExpectations(t)
		f.repo.AssertExpectations(t)
	})

	t.Run("member cannot delete", func(t *testing.T) {
		f := newFixture()
		f.repo.On("Get", ctx, "proj1").Return(sampleProject(), nil)
		require.ErrorIs(t, f.svc.Delete(ctx, "proj1", "alice"), project.ErrNotOwner)
	})
}

func TestProjectService_Update(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.repo.On("Get", ctx, "proj1").Return(sampleProject(), nil)
	f.repo.On("UpdateDetails", ctx, mock.MatchedBy(func(p *project.Project) bool {
		return p.Name == "Renamed" && p.Description == "demo project"
	})).Return(nil)
	f.ledger.On("Append", ctx, entryOf(activity.TypeUpdate)).Return(nil)
	f.ledger.On("Announce", ctx, mock.Anything).Return()

	proj, err := f.svc.Update(ctx, "proj1", "owner", project.UpdateRequest{Name: "Renamed"})
	require.NoError(t, err)
	require.Equal(t, "Renamed", proj.Name)

	_, err = f.svc.Update(ctx, "proj1", "alice", project.UpdateRequest{Name: "x"})
	require.ErrorIs(t, err, project.ErrNotOwner)
}
