package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"spry/internal/api"
)

var (
	planItemRegex = regexp.MustCompile(`^(\s*)[-*]\s+(.*)$`)
	planPointsTag = regexp.MustCompile(`\[(\d+(?:\.\d+)?)\s*pts?\]`)
	planHoursTag  = regexp.MustCompile(`\[(\d+(?:\.\d+)?)h\]`)
	planEpicTag   = regexp.MustCompile(`epic:(\S+)`)
	planAssignTag = regexp.MustCompile(`@(\S+)`)
	planBangTag   = regexp.MustCompile(`!(\S+)`)
	planSpaceRuns = regexp.MustCompile(`\s+`)
)

// parsePlan reads a markdown sprint plan. Optional YAML front matter
// sets plan-wide values (sprint, priority, type); the body is a list
// where top-level items are stories and indented items are the tasks
// of the story above them.
//
//	---
//	sprint: sn-aa11
//	priority: high
//	---
//	- Checkout flow [5pts] epic:ep-aa11
//	  - Build cart page [3h] @alice
//	  - Wire payment provider !critical
func parsePlan(input string) (api.PlanImportRequest, error) {
	var req api.PlanImportRequest

	frontMatter, content, err := splitFrontMatter(input)
	if err != nil {
		return req, err
	}

	if value, ok := frontMatter["sprint"].(string); ok {
		req.SprintID = value
	}
	if value, ok := frontMatter["sprint_id"].(string); ok {
		req.SprintID = value
	}
	defaultPriority, _ := frontMatter["priority"].(string)
	defaultType, _ := frontMatter["type"].(string)

	for lineNum, line := range strings.Split(content, "\n") {
		match := planItemRegex.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		indent, text := match[1], strings.TrimSpace(match[2])
		if text == "" {
			continue
		}

		if indent == "" {
			story := parseStoryLine(text)
			if story.Priority == "" {
				story.Priority = defaultPriority
			}
			req.Stories = append(req.Stories, story)
			continue
		}

		if len(req.Stories) == 0 {
			return req, fmt.Errorf("line %d: task before any story", lineNum+1)
		}
		task := parseTaskLine(text)
		if task.Type == "" {
			task.Type = defaultType
		}
		last := &req.Stories[len(req.Stories)-1]
		last.Tasks = append(last.Tasks, task)
	}

	if len(req.Stories) == 0 {
		return req, fmt.Errorf("plan has no stories")
	}
	return req, nil
}

func splitFrontMatter(input string) (map[string]any, string, error) {
	frontMatter := map[string]any{}

	lines := strings.Split(input, "\n")
	if len(lines) < 3 || strings.TrimSpace(lines[0]) != "---" {
		return frontMatter, input, nil
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end == -1 {
		return nil, "", fmt.Errorf("front matter not closed")
	}

	frontText := strings.Join(lines[1:end], "\n")
	if err := yaml.Unmarshal([]byte(frontText), &frontMatter); err != nil {
		return nil, "", err
	}
	return frontMatter, strings.Join(lines[end+1:], "\n"), nil
}

func parseStoryLine(text string) api.PlanStoryRecord {
	var record api.PlanStoryRecord

	if match := planPointsTag.FindStringSubmatch(text); match != nil {
		if points, err := strconv.ParseFloat(match[1], 64); err == nil {
			record.StoryPoints = &points
		}
		text = strings.Replace(text, match[0], "", 1)
	}
	if match := planEpicTag.FindStringSubmatch(text); match != nil {
		record.EpicID = match[1]
		text = strings.Replace(text, match[0], "", 1)
	}
	if match := planBangTag.FindStringSubmatch(text); match != nil {
		record.Priority = match[1]
		text = strings.Replace(text, match[0], "", 1)
	}

	record.Name = collapseSpaces(text)
	return record
}

func parseTaskLine(text string) api.PlanTaskRecord {
	var record api.PlanTaskRecord

	if match := planHoursTag.FindStringSubmatch(text); match != nil {
		if hours, err := strconv.ParseFloat(match[1], 64); err == nil {
			record.EstimatedHours = &hours
		}
		text = strings.Replace(text, match[0], "", 1)
	}
	if match := planAssignTag.FindStringSubmatch(text); match != nil {
		record.Assignee = match[1]
		text = strings.Replace(text, match[0], "", 1)
	}
	if match := planBangTag.FindStringSubmatch(text); match != nil {
		record.Priority = match[1]
		text = strings.Replace(text, match[0], "", 1)
	}

	record.Name = collapseSpaces(text)
	return record
}

func collapseSpaces(text string) string {
	return strings.TrimSpace(planSpaceRuns.ReplaceAllString(text, " "))
}
