// Package server serves a local dashboard over the feedback store: category
// totals, high-priority items, and recent responses for the tracked posts.
package server

import (
	"context"
	"html/template"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rohunvora/twitter-feedback/internal/store"
)

// Server is the local dashboard web server.
type Server struct {
	engine *gin.Engine
	server *http.Server
	store  *store.Store
	posts  []string // tracked source post IDs
}

// New creates a dashboard server for the given tracked posts.
func New(st *store.Store, posts []string, addr string) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	tmpl, err := template.New("dashboard").Parse(dashboardTemplate)
	if err != nil {
		return nil, err
	}
	engine.SetHTMLTemplate(tmpl)

	s := &Server{
		engine: engine,
		store:  st,
		posts:  posts,
	}

	engine.GET("/", s.handleIndex)
	engine.GET("/api/data", s.handleData)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s, nil
}

// Addr returns the address the server listens on.
func (s *Server) Addr() string {
	return s.server.Addr
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("dashboard listening on http://%s", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

type tweetView struct {
	ID       string         `json:"id"`
	Author   string         `json:"author_username"`
	Text     string         `json:"text"`
	Relation store.Relation `json:"tweet_type"`
	Category store.Category `json:"category"`
	Priority int            `json:"priority"`
	Likes    int            `json:"likes"`
	URL      string         `json:"url"`
}

type dashboardData struct {
	Categories   []store.CategoryCount `json:"categories"`
	HighPriority []tweetView           `json:"high_priority"`
	Recent       []tweetView           `json:"recent"`
	Total        int                   `json:"total"`
	PerPost      map[string]int        `json:"per_post"`
	LastUpdated  time.Time             `json:"last_updated"`
}

func (s *Server) handleIndex(c *gin.Context) {
	data, err := s.collect(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to load dashboard: %v", err)
		return
	}
	c.HTML(http.StatusOK, "dashboard", data)
}

func (s *Server) handleData(c *gin.Context) {
	data, err := s.collect(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, data)
}

// collect aggregates store data across all tracked posts.
func (s *Server) collect(ctx context.Context) (*dashboardData, error) {
	data := &dashboardData{
		PerPost:     make(map[string]int),
		LastUpdated: time.Now(),
	}

	byCategory := make(map[store.Category]int)
	for _, parentID := range s.posts {
		counts, err := s.store.CategoryCounts(ctx, parentID)
		if err != nil {
			return nil, err
		}
		for _, c := range counts {
			byCategory[c.Category] += c.Count
		}

		high, err := s.store.HighPriority(ctx, parentID, 1, 50)
		if err != nil {
			return nil, err
		}
		data.HighPriority = append(data.HighPriority, toViews(high)...)

		recent, err := s.store.RecentAnalyzed(ctx, parentID, 100)
		if err != nil {
			return nil, err
		}
		data.Recent = append(data.Recent, toViews(recent)...)

		total, err := s.store.CountTweets(ctx, parentID)
		if err != nil {
			return nil, err
		}
		data.PerPost[parentID] = total
		data.Total += total
	}

	for category, count := range byCategory {
		data.Categories = append(data.Categories, store.CategoryCount{Category: category, Count: count})
	}
	sort.Slice(data.Categories, func(i, j int) bool {
		return data.Categories[i].Count > data.Categories[j].Count
	})
	sort.Slice(data.HighPriority, func(i, j int) bool {
		return data.HighPriority[i].Priority > data.HighPriority[j].Priority
	})

	return data, nil
}

func toViews(tweets []store.TweetWithAnalysis) []tweetView {
	views := make([]tweetView, len(tweets))
	for i, t := range tweets {
		views[i] = tweetView{
			ID:       t.Tweet.ID,
			Author:   t.Tweet.AuthorUsername,
			Text:     t.Tweet.Text,
			Relation: t.Tweet.Relation,
			Category: t.Analysis.Category,
			Priority: t.Analysis.Priority,
			Likes:    t.Tweet.Likes,
			URL:      t.Tweet.URL(),
		}
	}
	return views
}

const dashboardTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta http-equiv="refresh" content="30">
    <title>Feedback Dashboard</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 900px; margin: 0 auto; padding: 20px; background: #f5f5f5; }
        .card { background: white; border-radius: 8px; padding: 20px; margin-bottom: 15px; }
        h1 { color: #1da1f2; }
        .stat { display: inline-block; margin-right: 20px; color: #333; }
        .stat b { font-size: 20px; }
        table { width: 100%; border-collapse: collapse; }
        td, th { text-align: left; padding: 6px 8px; border-bottom: 1px solid #eee; font-size: 14px; }
        .tag { background: #e8f5fd; color: #1da1f2; padding: 2px 8px; border-radius: 12px; font-size: 12px; }
        .p2 { color: #c0392b; font-weight: bold; }
        .p1 { color: #d98e04; }
        a { color: #1da1f2; text-decoration: none; }
        .updated { color: #999; font-size: 12px; }
    </style>
</head>
<body>
    <h1>Feedback Dashboard</h1>
    <div class="card">
        <span class="stat"><b>{{.Total}}</b> responses</span>
        {{range .Categories}}<span class="stat">{{.Category}}: <b>{{.Count}}</b></span>{{end}}
    </div>

    <div class="card">
        <h2>High Priority</h2>
        <table>
            <tr><th>Author</th><th>Category</th><th>Text</th></tr>
            {{range .HighPriority}}
            <tr>
                <td><a href="{{.URL}}">@{{.Author}}</a></td>
                <td><span class="tag p{{.Priority}}">{{.Category}}</span></td>
                <td>{{.Text}}</td>
            </tr>
            {{end}}
        </table>
    </div>

    <div class="card">
        <h2>Recent</h2>
        <table>
            <tr><th>Author</th><th>Category</th><th>Text</th></tr>
            {{range .Recent}}
            <tr>
                <td><a href="{{.URL}}">@{{.Author}}</a></td>
                <td><span class="tag">{{.Category}}</span></td>
                <td>{{.Text}}</td>
            </tr>
            {{end}}
        </table>
    </div>

    <div class="updated">Last updated {{.LastUpdated.Format "15:04:05"}} · refreshes every 30s</div>
</body>
</html>`
