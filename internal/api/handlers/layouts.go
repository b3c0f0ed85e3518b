package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/cuesim/internal/database"
	"github.com/playmatatu/cuesim/internal/layout"
)

const maxLayoutBody = 1 << 20

// LayoutStore persists named table layouts.
type LayoutStore interface {
	Get(ctx context.Context, name string) (*layout.Layout, error)
	Save(ctx context.Context, name string, l *layout.Layout) error
	List(ctx context.Context) ([]database.LayoutInfo, error)
}

// ListLayouts returns the stored layout names
func ListLayouts(store LayoutStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		infos, err := store.List(c.Request.Context())
		if err != nil {
			log.Printf("[DB] List layouts failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if infos == nil {
			infos = []database.LayoutInfo{}
		}
		c.JSON(http.StatusOK, gin.H{"layouts": infos})
	}
}

// GetLayout returns one stored layout
func GetLayout(store LayoutStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		l, err := store.Get(c.Request.Context(), c.Param("name"))
		if errors.Is(err, database.ErrLayoutNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "layout not found"})
			return
		}
		if err != nil {
			log.Printf("[DB] Get layout failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, l)
	}
}

// PutLayout validates and stores a layout. The body is JSON, or the text
// format when sent as text/plain.
func PutLayout(store LayoutStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxLayoutBody))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
			return
		}

		var l *layout.Layout
		if strings.HasPrefix(c.ContentType(), "text/plain") {
			l, err = layout.ParseText(bytes.NewReader(body))
		} else {
			l = &layout.Layout{}
			if jerr := json.Unmarshal(body, l); jerr != nil {
				err = fmt.Errorf("%w: %v", layout.ErrMalformed, jerr)
			}
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if _, err := l.Build(0); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		if err := store.Save(c.Request.Context(), name, l); err != nil {
			log.Printf("[DB] Save layout %s failed: %v", name, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		log.Printf("[LAYOUT] Stored layout %s (%d balls, %d pockets)", name, len(l.Balls), len(l.Pockets))
		c.JSON(http.StatusOK, gin.H{"name": name, "balls": len(l.Balls), "pockets": len(l.Pockets)})
	}
}
