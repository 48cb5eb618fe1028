package qc

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"

	"github.com/ankurkotwal/quotecard/qc/background"
	"github.com/ankurkotwal/quotecard/qc/common"
	"github.com/ankurkotwal/quotecard/qc/compose"
	"github.com/ankurkotwal/quotecard/qc/quote"
	"github.com/ankurkotwal/quotecard/qc/store"
)

// NewDeps wires the production collaborators for sessions
func NewDeps(config *common.Config) compose.Deps {
	return compose.Deps{
		Config:      config,
		Quotes:      quote.NewClient(config),
		Backgrounds: background.NewProvider(config),
		Renderer: &compose.Renderer{
			Backgrounds: background.NewLoader(),
			NewSurface:  compose.NewSurfaceFactory(config),
		},
	}
}

// GetServer builds the router. lines may be nil, in which case the quote
// service endpoints are not registered.
func GetServer(debugMode bool, config *common.Config, deps compose.Deps,
	lines *store.Store) (*gin.Engine, string) {
	if !debugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	if debugMode {
		pprof.Register(router)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"app": config.AppName, "version": config.Version})
	})

	// Preview: what a session would render, without drawing it
	router.GET("/api/quote", func(c *gin.Context) {
		session := compose.NewSession(deps, nil)
		session.Prepare(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"session": session.ID,
			"quote":   session.Quote,
			"render":  session.Params,
			"errors":  session.Log.Errors(),
		})
	})

	router.GET("/api/compose", func(c *gin.Context) {
		session := compose.NewSession(deps, nil)
		_, err := session.Compose(c.Request.Context(), downloadSink(c))
		if err != nil {
			c.String(http.StatusInternalServerError, "Error composing image - %s", err)
		}
	})

	if lines != nil {
		registerLineRoutes(router, lines)
	}

	// Run on port 8080 unless PORT varilable specified
	port := os.Getenv("PORT")
	if len(port) == 0 {
		port = "8080"
	}
	return router, fmt.Sprintf(":%s", port)
}

// downloadSink sends the file as an attachment on c
func downloadSink(c *gin.Context) compose.Sink {
	return compose.SinkFunc(func(file compose.ExportedFile) error {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
		c.Data(http.StatusOK, file.ContentType, file.Data)
		return nil
	})
}

func registerLineRoutes(router *gin.Engine, lines *store.Store) {
	router.GET("/random-line", func(c *gin.Context) {
		var filter store.LineFilter
		for name, dest := range map[string]**int64{
			"season":  &filter.SeasonID,
			"episode": &filter.EpisodeID,
			"speaker": &filter.SpeakerID,
		} {
			value, err := queryInt(c, name)
			if err != nil {
				c.String(http.StatusBadRequest, "Invalid %s - %s", name, err)
				return
			}
			*dest = value
		}
		line, err := lines.RandomLine(c.Request.Context(), filter)
		if errors.Is(err, store.ErrNoLines) {
			c.String(http.StatusNotFound, "No matching lines")
			return
		}
		if err != nil {
			c.String(http.StatusInternalServerError, "Error fetching line - %s", err)
			return
		}
		c.JSON(http.StatusOK, line)
	})

	router.GET("/seasons", func(c *gin.Context) {
		seasons, err := lines.Seasons(c.Request.Context())
		if err != nil {
			c.String(http.StatusInternalServerError, "Error fetching seasons - %s", err)
			return
		}
		c.JSON(http.StatusOK, seasons)
	})

	router.GET("/seasons/:id/episodes", func(c *gin.Context) {
		seasonID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.String(http.StatusBadRequest, "Invalid season id - %s", err)
			return
		}
		episodes, err := lines.Episodes(c.Request.Context(), seasonID)
		if err != nil {
			c.String(http.StatusInternalServerError, "Error fetching episodes - %s", err)
			return
		}
		c.JSON(http.StatusOK, episodes)
	})

	router.GET("/transcripts/:season/:episode", func(c *gin.Context) {
		season, err1 := strconv.Atoi(c.Param("season"))
		episode, err2 := strconv.Atoi(c.Param("episode"))
		if err := errors.Join(err1, err2); err != nil {
			c.String(http.StatusBadRequest, "Invalid transcript path - %s", err)
			return
		}
		transcript, err := lines.Transcript(c.Request.Context(), season, episode)
		if err != nil {
			c.String(http.StatusInternalServerError, "Error fetching transcript - %s", err)
			return
		}
		c.JSON(http.StatusOK, transcript)
	})
}

func queryInt(c *gin.Context, name string) (*int64, error) {
	raw, found := c.GetQuery(name)
	if !found || len(raw) == 0 {
		return nil, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
