// Package report renders categorized feedback reports: a template-rendered
// fallback that needs no API key, and an LLM-generated insights document.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/rohunvora/twitter-feedback/internal/analyzer"
	"github.com/rohunvora/twitter-feedback/internal/store"
)

// Builder renders the offline HTML report from stored tweets.
type Builder struct {
	maxPerSection int
	template      *template.Template
}

// NewBuilder creates a report builder. maxPerSection caps how many tweets each
// category section lists.
func NewBuilder(maxPerSection int) (*Builder, error) {
	tmpl, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return &Builder{maxPerSection: maxPerSection, template: tmpl}, nil
}

// reportData is the template data structure
type reportData struct {
	Title     string
	Date      string
	SourceURL string
	Total     int
	Sections  []sectionData
}

type sectionData struct {
	Name     string
	Count    int
	Tweets   []tweetData
	Collapse bool // noise categories render collapsed
}

type tweetData struct {
	Author   string
	Text     string
	URL      string
	Relation store.Relation
	Likes    int
}

// noiseCategories render inside collapsed <details> sections.
var noiseCategories = map[store.Category]bool{
	store.CategoryJoke:  true,
	store.CategorySpam:  true,
	store.CategoryOther: true,
}

// Build renders the fallback report, categorizing tweets on the fly so it
// works even when the analyze step has not run.
func (b *Builder) Build(parentID string, tweets []store.Tweet) (string, error) {
	if len(tweets) == 0 {
		return "", fmt.Errorf("no tweets to report on")
	}

	grouped := make(map[store.Category][]tweetData)
	for _, t := range tweets {
		category, _, _ := analyzer.Categorize(t.Text)
		grouped[category] = append(grouped[category], tweetData{
			Author:   t.AuthorUsername,
			Text:     t.Text,
			URL:      t.URL(),
			Relation: t.Relation,
			Likes:    t.Likes,
		})
	}

	data := reportData{
		Title:     "Tweet Feedback Report",
		Date:      time.Now().Format("Monday, January 2"),
		SourceURL: "https://x.com/i/status/" + parentID,
		Total:     len(tweets),
	}
	for _, category := range store.Categories {
		items := grouped[category]
		if len(items) == 0 {
			continue
		}
		count := len(items)
		if count > b.maxPerSection {
			items = items[:b.maxPerSection]
		}
		data.Sections = append(data.Sections, sectionData{
			Name:     string(category),
			Count:    count,
			Tweets:   items,
			Collapse: noiseCategories[category],
		})
	}

	var buf bytes.Buffer
	if err := b.template.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}

const reportTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>{{.Title}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 700px; margin: 0 auto; padding: 20px; background: #f5f5f5; }
        .container { background: white; border-radius: 8px; padding: 20px; }
        h1 { color: #1da1f2; margin-bottom: 5px; }
        .date { color: #666; margin-bottom: 20px; }
        .stats { color: #333; padding: 10px 0; border-bottom: 1px solid #eee; margin-bottom: 15px; }
        .section h2 { font-size: 16px; text-transform: uppercase; letter-spacing: 0.03em; color: #333; }
        .tag { background: #e8f5fd; color: #1da1f2; padding: 2px 8px; border-radius: 12px; font-size: 12px; margin-left: 6px; }
        blockquote { border-left: 3px solid #1da1f2; margin: 10px 0; padding: 6px 12px; background: #fafafa; }
        .cite { color: #1da1f2; text-decoration: none; font-weight: bold; }
        .metrics { color: #666; font-size: 12px; }
        details summary { cursor: pointer; font-weight: bold; padding: 8px 0; }
        .footer { margin-top: 20px; padding-top: 15px; border-top: 1px solid #eee; color: #999; font-size: 12px; text-align: center; }
    </style>
</head>
<body>
    <div class="container">
        <h1>{{.Title}}</h1>
        <div class="date">{{.Date}}</div>
        <div class="stats">{{.Total}} responses · <a class="cite" href="{{.SourceURL}}">source tweet</a></div>

        {{range .Sections}}
        {{if .Collapse}}
        <details class="section">
            <summary>{{.Name}} <span class="tag">{{.Count}}</span></summary>
            {{range .Tweets}}
            <blockquote>
                <a class="cite" href="{{.URL}}">@{{.Author}}</a> <span class="metrics">({{.Relation}}, {{.Likes}} likes)</span><br>
                {{.Text}}
            </blockquote>
            {{end}}
        </details>
        {{else}}
        <div class="section">
            <h2>{{.Name}} <span class="tag">{{.Count}}</span></h2>
            {{range .Tweets}}
            <blockquote>
                <a class="cite" href="{{.URL}}">@{{.Author}}</a> <span class="metrics">({{.Relation}}, {{.Likes}} likes)</span><br>
                {{.Text}}
            </blockquote>
            {{end}}
        </div>
        {{end}}
        {{end}}

        <div class="footer">Generated by twitter-feedback</div>
    </div>
</body>
</html>`
