package web

import "net/http"

// adminListLimit caps each admin table.
const adminListLimit = 50

func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	data := PageData{Title: "Admin"}
	if s.ledger != nil {
		var err error
		if data.Submissions, err = s.ledger.RecentSubmissions(r.Context(), adminListLimit); err != nil {
			s.logger.Error("list submissions", "error", err)
			data.Error = "Could not load submissions."
		}
		if data.Blobs, err = s.ledger.RecentBlobs(r.Context(), adminListLimit); err != nil {
			s.logger.Error("list blobs", "error", err)
			data.Error = "Could not load uploads."
		}
	}
	s.render(w, http.StatusOK, "admin.html", data)
}
