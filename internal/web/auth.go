package web

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	"brandcheck/internal/session"
)

type loginRequest struct {
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type loginResponse struct {
	Success bool `json:"success"`
}

func isFormPost(r *http.Request) bool {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mt == "application/x-www-form-urlencoded" || mt == "multipart/form-data"
}

// safeNext keeps post-login redirects on this host.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, `/\`) {
		return "/"
	}
	return next
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	form := isFormPost(r)

	var req loginRequest
	if form {
		if err := r.ParseForm(); err != nil {
			s.logger.Error("login: parse form", "error", err)
			writeError(w, http.StatusInternalServerError, "Authentication failed")
			return
		}
		req.Password = r.PostFormValue("password")
		req.RememberMe = r.PostFormValue("rememberMe") != ""
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Error("login: decode body", "error", err)
		writeError(w, http.StatusInternalServerError, "Authentication failed")
		return
	}

	sess, err := s.gate.Login(req.Password, req.RememberMe)
	if errors.Is(err, session.ErrUnauthorized) {
		s.logger.Warn("login rejected", "remote", r.RemoteAddr)
		if form {
			s.render(w, http.StatusUnauthorized, "login.html", PageData{
				Title: "Sign in",
				Error: "Invalid password",
				Next:  safeNext(r.PostFormValue("next")),
			})
			return
		}
		writeError(w, http.StatusUnauthorized, "Invalid password")
		return
	}
	if err != nil {
		s.logger.Error("login: issue session", "error", err)
		writeError(w, http.StatusInternalServerError, "Authentication failed")
		return
	}

	http.SetCookie(w, session.Cookie(sess, r.TLS != nil))
	s.logger.Info("login accepted", "remember_me", req.RememberMe)

	if form {
		http.Redirect(w, r, safeNext(r.PostFormValue("next")), http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Success: true})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, session.ClearCookie(r.TLS != nil))
	if isFormPost(r) {
		http.Redirect(w, r, session.LoginPath, http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Success: true})
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "login.html", PageData{
		Title: "Sign in",
		Next:  safeNext(r.URL.Query().Get("next")),
	})
}
