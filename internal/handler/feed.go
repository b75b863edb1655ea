package handler

import (
	"log"
	"net/http"

	"buzzline/internal/httputil"
	"buzzline/internal/service"
)

type FeedHandler struct {
	feedService *service.FeedService
}

func NewFeedHandler(feedService *service.FeedService) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
	}
}

// ListPosts handles GET /posts
// Returns the feed newest-first. The optional author_id query param
// restricts the feed to one author; an unknown author yields an empty
// feed, not an error.
func (h *FeedHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	authorID, err := parseOptionalIDQuery(r, "author_id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid author_id parameter")
		return
	}

	entries, err := h.feedService.ListPosts(r.Context(), authorID)
	if err != nil {
		log.Printf("[ERROR] List posts handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to list posts")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"posts": entries,
	})
}
