package deck

import "testing"

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	original := &Content{Slides: []SlideContent{
		{Type: SlideTypeTitle, Title: "Title", Points: []string{}},
		{Type: SlideTypeKeyPoint, Title: "Point", Points: []string{"first", "second"}},
	}}

	clone := original.Clone()
	clone.Slides[0].Title = "Changed"
	clone.Slides[1].Points[0] = "mutated"
	clone.Slides[1].ImageQuery = "robot"

	if original.Slides[0].Title != "Title" {
		t.Fatalf("expected original title untouched, got %q", original.Slides[0].Title)
	}
	if original.Slides[1].Points[0] != "first" {
		t.Fatalf("expected original points untouched, got %q", original.Slides[1].Points[0])
	}
	if original.Slides[1].ImageQuery != "" {
		t.Fatalf("expected original image query untouched, got %q", original.Slides[1].ImageQuery)
	}
}

func TestClonePreservesNilPoints(t *testing.T) {
	t.Parallel()

	original := &Content{Slides: []SlideContent{{Type: SlideTypeTitle, Title: "Title"}}}

	clone := original.Clone()

	if clone.Slides[0].Points != nil {
		t.Fatalf("expected nil points to stay nil, got %v", clone.Slides[0].Points)
	}
}

func TestCloneNilContent(t *testing.T) {
	t.Parallel()

	var content *Content
	if content.Clone() != nil {
		t.Fatal("expected nil clone for nil content")
	}
}

func TestExtractJSONPayload(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "plain object",
			raw:  `{"slides": []}`,
			want: `{"slides": []}`,
		},
		{
			name: "fenced with language",
			raw:  "```json\n{\"slides\": []}\n```",
			want: `{"slides": []}`,
		},
		{
			name: "fenced without language",
			raw:  "```\n{\"slides\": []}\n```",
			want: `{"slides": []}`,
		},
		{
			name: "prose around the object",
			raw:  "Here is the deck you asked for:\n{\"slides\": []}\nLet me know if you need changes.",
			want: `{"slides": []}`,
		},
		{
			name: "leading whitespace",
			raw:  "  \n\t{\"slides\": []}",
			want: `{"slides": []}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := extractJSONPayload(tc.raw)
			if err != nil {
				t.Fatalf("expected payload, got error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestExtractJSONPayloadRejectsEmptyResponse(t *testing.T) {
	t.Parallel()

	if _, err := extractJSONPayload("   \n"); err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestExtractJSONPayloadRejectsMissingObject(t *testing.T) {
	t.Parallel()

	if _, err := extractJSONPayload("no structured data here"); err == nil {
		t.Fatal("expected error for response without a JSON object")
	}
}
