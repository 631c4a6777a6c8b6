package orgmode

import (
	"strings"
	"testing"
)

const sampleOrg = `#+TITLE: Thesis
* TODO [#A] Research: Reading Vicky Notes :reading:thesis:
  SCHEDULED: <2025-09-23 Tue> DEADLINE: <2025-10-24 Fri>
  :PROPERTIES:
  :EFFORT: 80
  :END:
* DONE Initial Supervisor Meeting :thesis:
  DEADLINE: <2025-10-02 Thu 10:00>
* TODO Someday idea
  Just notes, no dates.
** TODO Planning Lecture
   SCHEDULED: <2025-10-17 Fri>
   :PROPERTIES:
   :EFFORT: 20%
   :END:
`

func TestParse(t *testing.T) {
	tasks, err := Parse(strings.NewReader(sampleOrg), "thesis.org")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("Expected 3 dated tasks, got %d: %+v", len(tasks), tasks)
	}

	research := tasks[0]
	if research.Name != "Research: Reading Vicky Notes" {
		t.Errorf("Unexpected name %q", research.Name)
	}
	if research.Start.String() != "2025-09-23" || research.End.String() != "2025-10-24" {
		t.Errorf("Unexpected dates %s..%s", research.Start, research.End)
	}
	if research.Effort != 80 {
		t.Errorf("Expected effort 80, got %v", research.Effort)
	}
	if len(research.Tags) != 2 || research.Tags[0] != "reading" {
		t.Errorf("Unexpected tags %v", research.Tags)
	}

	meeting := tasks[1]
	if !meeting.Instantaneous() || meeting.Start.String() != "2025-10-02" {
		t.Errorf("Expected single-day meeting on 2025-10-02, got %s..%s", meeting.Start, meeting.End)
	}
	if meeting.Effort != 0 {
		t.Errorf("Expected DONE heading without :EFFORT: to keep effort 0, got %v", meeting.Effort)
	}

	lecture := tasks[2]
	if lecture.Name != "Planning Lecture" || lecture.Effort != 20 || !lecture.Instantaneous() {
		t.Errorf("Unexpected lecture task %+v", lecture)
	}
}

func TestFilterTasks(t *testing.T) {
	tasks, err := Parse(strings.NewReader(sampleOrg), "thesis.org")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := FilterTasks(tasks, "thesis"); len(got) != 2 {
		t.Errorf("Expected 2 thesis tasks, got %d", len(got))
	}
	if got := FilterTasks(tasks, "missing"); len(got) != 0 {
		t.Errorf("Expected no tasks, got %d", len(got))
	}
}
