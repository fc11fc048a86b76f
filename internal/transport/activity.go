package transport

import (
	"net/http"
	"strconv"

	"github.com/letzcode/letzcode-server/internal/domain/activity"
)

func (s *Server) handleActivityFeed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	items, err := s.activity.Feed(r.Context(), activity.FeedOptions{
		ViewerID: mustActor(r).ID,
		Scope:    activity.Scope(q.Get("type")),
		Sort:     activity.Sort(q.Get("sort")),
		Limit:    limit,
	})
	if err != nil {
		s.writeError(w, r, "", err, "Error fetching activity feed")
		return
	}
	respond(w, http.StatusOK, envelope{"activities": items})
}
