package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/ayuni-ai/ayuni/internal/engine"
	"github.com/ayuni-ai/ayuni/internal/store"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		DisplayName string `json:"display_name"`
		BetaCode    string `json:"beta_code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Email == "" || req.DisplayName == "" || req.BetaCode == "" {
		writeError(w, http.StatusBadRequest, "email, display_name and beta_code required")
		return
	}

	ok, err := s.db.RedeemBetaCode(req.BetaCode)
	if err != nil {
		log.Printf("register: redeem code: %v", err)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}
	if !ok {
		writeError(w, http.StatusForbidden, "invalid or exhausted beta code")
		return
	}

	user, err := s.db.CreateUser(req.Email, req.DisplayName, req.BetaCode)
	if err != nil {
		// The code was already redeemed; a rejected registration must
		// not burn the invite.
		if restoreErr := s.db.RestoreBetaCodeUse(req.BetaCode); restoreErr != nil {
			log.Printf("register: restore code use: %v", restoreErr)
		}
		if errors.Is(err, store.ErrDuplicateEmail) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		log.Printf("register: create user: %v", err)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"user_id":      user.ID,
		"email":        user.Email,
		"display_name": user.DisplayName,
	})
}

func (s *Server) handleCreateAEI(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID  string `json:"user_id"`
		Name    string `json:"name"`
		Persona string `json:"persona"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.UserID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "user_id and name required")
		return
	}

	if _, err := s.db.GetUser(req.UserID); errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	} else if err != nil {
		log.Printf("create aei: get user: %v", err)
		writeError(w, http.StatusInternalServerError, "creation failed")
		return
	}

	aei, err := s.db.CreateAEI(req.UserID, req.Name, req.Persona)
	if err != nil {
		log.Printf("create aei: %v", err)
		writeError(w, http.StatusInternalServerError, "creation failed")
		return
	}

	sess, err := s.db.CreateChatSession(req.UserID, aei.ID)
	if err != nil {
		log.Printf("create aei: create session: %v", err)
		writeError(w, http.StatusInternalServerError, "creation failed")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"aei_id":     aei.ID,
		"name":       aei.Name,
		"session_id": sess.ID,
	})
}

func (s *Server) handleGenerateAvatar(w http.ResponseWriter, r *http.Request) {
	aeiID := chi.URLParam(r, "aeiID")

	if s.avatars == nil {
		writeError(w, http.StatusServiceUnavailable, "avatar generation not configured")
		return
	}

	aei, err := s.db.GetAEI(aeiID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "aei not found")
		return
	} else if err != nil {
		log.Printf("avatar: get aei: %v", err)
		writeError(w, http.StatusInternalServerError, "avatar generation failed")
		return
	}

	prompt := "Portrait of " + aei.Name + ". " + aei.Persona
	path, err := s.avatars.Generate(r.Context(), aei.ID, prompt)
	if err != nil {
		log.Printf("avatar: generate for %s: %v", aei.ID, err)
		writeError(w, http.StatusBadGateway, "avatar generation failed")
		return
	}

	if err := s.db.SetAvatarPath(aei.ID, path); err != nil {
		log.Printf("avatar: save path for %s: %v", aei.ID, err)
		writeError(w, http.StatusInternalServerError, "avatar generation failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"avatar_path": path})
}

func (s *Server) handleDecayRun(w http.ResponseWriter, r *http.Request) {
	report, err := s.engine.ProcessDecay(r.Context())
	if errors.Is(err, engine.ErrBusy) {
		writeError(w, http.StatusConflict, "decay batch already running")
		return
	}
	if err != nil {
		log.Printf("decay run: %v", err)
		writeError(w, http.StatusInternalServerError, "decay processing failed")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleDecaySchedule(w http.ResponseWriter, r *http.Request) {
	ran, err := s.engine.ScheduleDecay(r.Context())
	if err != nil {
		log.Printf("decay schedule: %v", err)
		writeError(w, http.StatusInternalServerError, "decay scheduling failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"scheduled": ran})
}

func (s *Server) handleDecayStats(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 7)
	stats, err := s.db.DecayStatistics(days)
	if err != nil {
		log.Printf("decay stats: %v", err)
		writeError(w, http.StatusInternalServerError, "statistics unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"days": days, "stats": stats})
}

func (s *Server) handleMostAffected(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)
	ranked, err := s.db.MostAffectedAEIs(limit)
	if err != nil {
		log.Printf("most affected: %v", err)
		writeError(w, http.StatusInternalServerError, "statistics unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"aeis": ranked})
}

func (s *Server) handleSocialRun(w http.ResponseWriter, r *http.Request) {
	report, err := s.engine.ProcessAllSocial(r.Context())
	if errors.Is(err, engine.ErrBusy) {
		writeError(w, http.StatusConflict, "social batch already running")
		return
	}
	if err != nil {
		log.Printf("social run: %v", err)
		writeError(w, http.StatusInternalServerError, "social processing failed")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleSocialSingle(w http.ResponseWriter, r *http.Request) {
	aeiID := chi.URLParam(r, "aeiID")

	n, err := s.engine.ProcessAEI(r.Context(), aeiID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "aei not found")
		return
	}
	if err != nil {
		log.Printf("social single %s: %v", aeiID, err)
		writeError(w, http.StatusBadGateway, "interaction generation failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"interactions": n})
}

func (s *Server) handleSocialInit(w http.ResponseWriter, r *http.Request) {
	aeiID := chi.URLParam(r, "aeiID")

	created, err := s.engine.InitializeSocialEnvironment(r.Context(), aeiID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "aei not found")
		return
	}
	if err != nil {
		log.Printf("social init %s: %v", aeiID, err)
		writeError(w, http.StatusInternalServerError, "initialization failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"initialized": created})
}

func (s *Server) handleSocialCleanup(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.engine.CleanupInteractions(r.Context())
	if err != nil {
		log.Printf("social cleanup: %v", err)
		writeError(w, http.StatusInternalServerError, "cleanup failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
