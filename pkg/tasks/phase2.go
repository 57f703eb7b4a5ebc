// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tasks

import (
	"fmt"
	"strings"
)

// Phase 2: Launch Week (launcher tier). The coordinated push across
// channels during the launch window.
var phase2Tasks = []Task{
	{
		ID:           "phase2-1",
		Phase:        2,
		PhaseLabel:   "Launch Week",
		Tier:         TierLauncher,
		Title:        "Launch Announcement Thread",
		Description:  "Write the announcement thread for X/Twitter that tells your launch story and drives people to the landing page.",
		TimeEstimate: "1-2 hours",
		Icon:         "📣",
		Category:     "Announcement",
		Steps: []Step{
			{
				Title:       "Draft the hook post first",
				Description: "The first post decides whether anyone reads the rest. Lead with the outcome or the story, never with the product name.",
			},
			{
				Title:       "Schedule for your audience's peak hours",
				Description: "For a US-heavy developer audience, 9-11am ET on Tuesday through Thursday consistently performs best.",
			},
		},
		FormFields: []FormField{
			{ID: "app_name", Type: FieldText, Label: "App name", Required: true},
			{ID: "app_description", Type: FieldTextarea, Label: "What does your app do?", Required: true},
			{ID: "origin_story", Type: FieldTextarea, Label: "Why did you build it? (the origin story)", Placeholder: "e.g., I launched my first app to zero users and realized I had no playbook.", Required: true},
			{ID: "launch_url", Type: FieldText, Label: "Launch URL", Placeholder: "https://...", Required: true},
		},
		AI: &AIConfig{
			PromptTemplate: `You are a social media ghostwriter for indie founders. Write a launch announcement thread.

App: {app_name}
What it does: {app_description}
Origin story: {origin_story}
Link: {launch_url}

Write exactly 5 posts. Separate each post with a line containing only "---".

Rules:
- Post 1 is the hook: lead with the story or the outcome, not the product name.
- Post 2-3 tell the origin story and the problem.
- Post 4 shows what the product does.
- Post 5 is the call to action with the link.
- Each post must be under 280 characters.
- No hashtags. No emojis in post 1.`,
			Temperature: 0.8,
			MaxTokens:   1500,
			ParseResponse: func(raw string) (any, error) {
				var posts []string
				for _, part := range strings.Split(raw, "---") {
					if p := strings.TrimSpace(part); p != "" {
						posts = append(posts, p)
					}
				}
				if len(posts) < 3 {
					return nil, fmt.Errorf("expected a multi-post thread, got %d post(s)", len(posts))
				}
				return posts, nil
			},
		},
		DoneCriteria: []string{
			"Thread scheduled or posted",
			"Link click tracking in place",
		},
		CommonMistakes: []string{
			"Opening the thread with the product name instead of the story",
		},
	},
	{
		ID:           "phase2-2",
		Phase:        2,
		PhaseLabel:   "Launch Week",
		Tier:         TierLauncher,
		Title:        "Product Hunt Launch Page",
		Description:  "Prepare every asset Product Hunt needs so launch morning is execution, not scrambling.",
		TimeEstimate: "2-3 hours",
		Icon:         "🏹",
		Category:     "Announcement",
		Steps: []Step{
			{
				Title:       "Prepare the asset checklist",
				Description: "Tagline (60 chars), description, first comment, gallery images, and a thumbnail. All of it done the day before.",
				Subtasks: []Subtask{
					{Title: "Write 3 tagline candidates", Description: "60 characters max. Specific beats clever."},
					{Title: "Draft the maker's first comment", Description: "Your first comment carries the story; the listing carries the facts."},
					{Title: "Export gallery images at 1270x760", Description: "First image is the one people see in the feed."},
				},
			},
			{
				Title:       "Pick the launch day",
				Description: "Tuesday through Thursday, scheduled at 12:01am PT so you get the full 24-hour window.",
			},
		},
		FormFields: []FormField{
			{ID: "app_name", Type: FieldText, Label: "App name", Required: true},
			{ID: "app_description", Type: FieldTextarea, Label: "What does your app do?", Required: true},
			{ID: "target_audience", Type: FieldTextarea, Label: "Who is it for?", Required: true},
			{ID: "key_features", Type: FieldTextarea, Label: "Top 3 features (one per line)", Required: true},
		},
		AI: &AIConfig{
			PromptTemplate: `You are helping an indie founder prepare a Product Hunt launch.

App: {app_name}
What it does: {app_description}
Who it's for: {target_audience}
Key features: {key_features}

Generate:

## 3 Tagline Options
Max 60 characters each. Specific outcome over clever wordplay.

## Listing Description
2-3 sentences. What it is, who it's for, what makes it different.

## Maker's First Comment
150-250 words, first person. Open with why you built it, explain what it does, end with a question that invites discussion.`,
			Temperature: 0.7,
			MaxTokens:   1200,
		},
		Tools: []Tool{
			{Name: "Product Hunt", URL: "https://producthunt.com", FreeDetails: "Free to launch. Schedule at 12:01am PT."},
		},
		DoneCriteria: []string{
			"All assets exported and the launch scheduled",
		},
		CommonMistakes: []string{
			"Writing the first comment on launch morning under pressure",
			"Asking for upvotes directly — Product Hunt penalizes it",
		},
	},
	{
		ID:           "phase2-3",
		Phase:        2,
		PhaseLabel:   "Launch Week",
		Tier:         TierLauncher,
		Title:        "Community Launch Posts",
		Description:  "Write the Reddit and Hacker News posts. Each community has its own unwritten rules; a repurposed announcement gets removed.",
		TimeEstimate: "2 hours",
		Icon:         "💬",
		Category:     "Announcement",
		Steps: []Step{
			{
				Title:       "Find the subreddits that allow launches",
				Description: "Read each subreddit's rules first. r/SideProject and r/indiehackers welcome launches; most others require a self-promotion ratio.",
			},
			{
				Title:       "Write Show HN separately",
				Description: "HN wants the technical story and an honest framing. Marketing copy gets flagged within minutes.",
			},
		},
		FormFields: []FormField{
			{ID: "app_name", Type: FieldText, Label: "App name", Required: true},
			{ID: "app_description", Type: FieldTextarea, Label: "What does your app do?", Required: true},
			{ID: "technical_story", Type: FieldTextarea, Label: "Anything technically interesting about how you built it?", Placeholder: "Stack, hard problems, surprising decisions"},
			{
				ID:    "communities",
				Type:  FieldCheckboxes,
				Label: "Where are you posting?",
				Options: []Option{
					{Value: "hackernews", Label: "Hacker News (Show HN)"},
					{Value: "r/SideProject", Label: "r/SideProject"},
					{Value: "r/indiehackers", Label: "r/indiehackers"},
					{Value: "r/SaaS", Label: "r/SaaS"},
				},
			},
		},
		AI: &AIConfig{
			PromptTemplate: `You are an indie founder writing community launch posts. Each community punishes marketing speak, so write like a person sharing their work.

App: {app_name}
What it does: {app_description}
Technical story: {technical_story}
Posting to: {communities_list}

For each community listed, write a complete post (title + body) adapted to that community's culture:
- Show HN: factual title starting with "Show HN:", body covers what it does, the stack, and what you'd like feedback on.
- Reddit: conversational, lead with the journey, product link at the end, invite questions.`,
			Temperature: 0.7,
			MaxTokens:   1500,
		},
		DoneCriteria: []string{
			"One post drafted per selected community, each adapted to its rules",
		},
		CommonMistakes: []string{
			"Posting identical text to every community",
		},
	},
	{
		// Checklist-only: monitoring launch day is manual work.
		ID:           "phase2-4",
		Phase:        2,
		PhaseLabel:   "Launch Week",
		Tier:         TierLauncher,
		Title:        "Launch Day War Room",
		Description:  "Block the whole day. Launch day is about responding fast everywhere your announcement landed.",
		TimeEstimate: "Full day",
		Icon:         "🔥",
		Category:     "Execution",
		Steps: []Step{
			{
				Title:       "Reply to every comment within 30 minutes",
				Description: "Engagement in the first hours decides ranking on Product Hunt and HN. Set notifications to maximum.",
			},
			{
				Title:       "Watch error rates and signups live",
				Description: "Keep your analytics and error tracker open in pinned tabs. A broken signup flow found at hour 6 wasted the morning's traffic.",
			},
			{
				Title:       "Log every question people ask",
				Description: "Repeated questions are landing page bugs. Collect them today, fix the page tomorrow.",
			},
		},
		DoneCriteria: []string{
			"Every comment across channels got a reply",
			"Question log captured for follow-up",
		},
		CommonMistakes: []string{
			"Shipping code changes on launch day for anything short of a checkout-breaking bug",
		},
	},
}
