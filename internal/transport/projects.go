package transport

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/letzcode/letzcode-server/internal/domain/project"
)

// fileSize accepts a size sent either as a JSON string or a number.
type fileSize string

func (f *fileSize) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = fileSize(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = fileSize(n.String())
	return nil
}

type fileBody struct {
	Name string   `json:"name"`
	Size fileSize `json:"size"`
}

func toFileInputs(files []fileBody) []project.FileInput {
	out := make([]project.FileInput, 0, len(files))
	for _, f := range files {
		out = append(out, project.FileInput{Name: f.Name, Size: string(f.Size)})
	}
	return out
}

type createProjectBody struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Type        string     `json:"type"`
	Languages   []string   `json:"languages"`
	Version     string     `json:"version"`
	FilesInfo   []fileBody `json:"filesInfo"`
}

type updateProjectBody struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Languages   []string `json:"languages"`
	Image       string   `json:"image"`
}

type checkInBody struct {
	Message string     `json:"message"`
	Version string     `json:"version"`
	Files   []fileBody `json:"files"`
}

type addFilesBody struct {
	Files []fileBody `json:"files"`
}

// writeProject responds with the resolved project view.
func (s *Server) writeProject(w http.ResponseWriter, r *http.Request, status int, p *project.Project, message, fallback string) {
	view, err := s.presentProject(r.Context(), p)
	if err != nil {
		s.writeError(w, r, "", err, fallback)
		return
	}
	body := envelope{"project": view}
	if message != "" {
		body["message"] = message
	}
	respond(w, status, body)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var body createProjectBody
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, "", errInvalidBody, "")
		return
	}

	p, err := s.projects.Create(r.Context(), mustActor(r).ID, project.CreateRequest{
		Name:        body.Name,
		Description: body.Description,
		Type:        project.Type(body.Type),
		Languages:   body.Languages,
		Version:     body.Version,
		Files:       toFileInputs(body.FilesInfo),
	})
	if err != nil {
		s.writeError(w, r, "", err, "Error creating project")
		return
	}
	s.writeProject(w, r, http.StatusCreated, p, "Project created successfully", "Error creating project")
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	var opts project.ListOptions
	q := r.URL.Query()
	switch {
	case q.Get("type") == "my":
		opts.MemberID = mustActor(r).ID
	case q.Get("userId") != "":
		opts.MemberID = q.Get("userId")
	}

	list, err := s.projects.List(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, "", err, "Error fetching projects")
		return
	}
	views, err := s.presentSummaries(r.Context(), list)
	if err != nil {
		s.writeError(w, r, "", err, "Error fetching projects")
		return
	}
	respond(w, http.StatusOK, envelope{"projects": views})
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.projects.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, "", err, "Error fetching project")
		return
	}
	s.writeProject(w, r, http.StatusOK, p, "", "Error fetching project")
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var body updateProjectBody
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, "", errInvalidBody, "")
		return
	}

	p, err := s.projects.Update(r.Context(), chi.URLParam(r, "id"), mustActor(r).ID, project.UpdateRequest{
		Name:        body.Name,
		Description: body.Description,
		Type:        project.Type(body.Type),
		Languages:   body.Languages,
		Image:       body.Image,
	})
	if err != nil {
		s.writeError(w, r, opUpdate, err, "Error updating project")
		return
	}
	s.writeProject(w, r, http.StatusOK, p, "Project updated successfully", "Error updating project")
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.projects.Delete(r.Context(), chi.URLParam(r, "id"), mustActor(r).ID); err != nil {
		s.writeError(w, r, opDelete, err, "Error deleting project")
		return
	}
	respond(w, http.StatusOK, envelope{"message": "Project deleted successfully"})
}

func (s *Server) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	p, err := s.projects.CheckOut(r.Context(), chi.URLParam(r, "id"), mustActor(r).ID)
	if err != nil {
		s.writeError(w, r, opCheckOut, err, "Error checking out project")
		return
	}
	s.writeProject(w, r, http.StatusOK, p, "Project checked out successfully", "Error checking out project")
}

func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	var body checkInBody
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, "", errInvalidBody, "")
		return
	}

	p, err := s.projects.CheckIn(r.Context(), chi.URLParam(r, "id"), mustActor(r).ID, project.CheckInRequest{
		Message: body.Message,
		Version: body.Version,
		Files:   toFileInputs(body.Files),
	})
	if err != nil {
		s.writeError(w, r, "", err, "Error checking in project")
		return
	}
	s.writeProject(w, r, http.StatusOK, p, "Project checked in successfully", "Error checking in project")
}

func (s *Server) handleAddFiles(w http.ResponseWriter, r *http.Request) {
	var body addFilesBody
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, "", errInvalidBody, "")
		return
	}

	p, err := s.projects.AddFiles(r.Context(), chi.URLParam(r, "id"), mustActor(r).ID, toFileInputs(body.Files))
	if err != nil {
		s.writeError(w, r, opAddFiles, err, "Error adding files")
		return
	}
	s.writeProject(w, r, http.StatusOK, p, "Files added successfully", "Error adding files")
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var body targetBody
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, "", errInvalidBody, "")
		return
	}

	p, err := s.projects.AddMember(r.Context(), chi.URLParam(r, "id"), mustActor(r).ID, body.UserID)
	if err != nil {
		s.writeError(w, r, "", err, "Error adding member")
		return
	}
	s.writeProject(w, r, http.StatusOK, p, "Member added successfully", "Error adding member")
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	err := s.projects.RemoveMember(r.Context(), chi.URLParam(r, "id"), mustActor(r).ID, chi.URLParam(r, "memberId"))
	if err != nil {
		s.writeError(w, r, opRemoveMember, err, "Error removing member")
		return
	}
	respond(w, http.StatusOK, envelope{"message": "Member removed successfully"})
}
