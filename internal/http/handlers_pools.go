package http

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/nocturne-gg/riftkeeper/internal/queue"
)

// poolRoutes binds one pool store to its route vocabulary. Queues and
// recruitments share handlers; only the response keys and the role
// validation differ.
type poolRoutes struct {
	store queue.PoolStore
	// kind is the JSON key of the pool object: "queue" or "recruitment".
	kind string
	// label is the JSON key of the member list: "players" or "participants".
	label string
	// validateRole guards role values on join/update; nil accepts any.
	validateRole func(string) bool
}

// validLolRole accepts the five League roles or an empty (unset) role.
func validLolRole(role string) bool {
	switch role {
	case "", "TOP", "JUNGLE", "MID", "ADC", "SUPPORT":
		return true
	}
	return false
}

func (p poolRoutes) rolesOK(mainRole, subRole string) bool {
	if p.validateRole == nil {
		return true
	}
	return p.validateRole(mainRole) && p.validateRole(subRole)
}

func (s *Server) CreatePoolHandler(p poolRoutes) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pool queue.Pool
		if !decodeBody(w, r, &pool) {
			return
		}
		if pool.GuildID == "" || pool.CreatorID == "" {
			writeMessage(w, http.StatusBadRequest, "guildId and creatorId are required")
			return
		}
		if pool.Type == "" {
			pool.Type = queue.TypeNormal
		}
		if !pool.Type.Valid() {
			writeMessage(w, http.StatusBadRequest, "Invalid type")
			return
		}
		created, err := p.store.Create(pool)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		log.Info("pool created", "kind", p.kind, "id", created.ID, "guildID", created.GuildID)
		writeJSON(w, http.StatusCreated, map[string]any{p.kind: created})
	}
}

func (s *Server) GetPoolHandler(p poolRoutes) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pool, members, err := p.store.Get(r.PathValue("id"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{p.kind: pool, p.label: members})
	}
}

func (s *Server) ListPoolsHandler(p poolRoutes) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pools, err := p.store.ListByGuild(r.PathValue("guildId"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{p.kind + "s": pools})
	}
}

func (s *Server) DeletePoolHandler(p poolRoutes) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := p.store.Delete(r.PathValue("id")); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) JoinPoolHandler(p poolRoutes) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var m queue.Member
		if !decodeBody(w, r, &m) {
			return
		}
		if m.DiscordID == "" {
			writeMessage(w, http.StatusBadRequest, "discordId is required")
			return
		}
		if !p.rolesOK(m.MainRole, m.SubRole) {
			writeMessage(w, http.StatusBadRequest, "Invalid role")
			return
		}
		count, isFull, err := p.store.Join(r.PathValue("id"), m)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		s.Metrics.IncQueueJoins()
		writeJSON(w, http.StatusOK, map[string]any{"count": count, "full": isFull})
	}
}

func (s *Server) LeavePoolHandler(p poolRoutes) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := p.store.Leave(r.PathValue("id"), r.PathValue("discordId"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"count": count})
	}
}

func (s *Server) UpdatePoolRolesHandler(p poolRoutes) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			MainRole string `json:"mainRole"`
			SubRole  string `json:"subRole"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if !p.rolesOK(req.MainRole, req.SubRole) {
			writeMessage(w, http.StatusBadRequest, "Invalid role")
			return
		}
		if err := p.store.UpdateRoles(r.PathValue("id"), r.PathValue("discordId"), req.MainRole, req.SubRole); err != nil {
			writeStoreError(w, err)
			return
		}
		writeMessage(w, http.StatusOK, "Roles updated")
	}
}
