package deck

import "fmt"

// SlideType identifies the intent of one slide.
type SlideType string

const (
	SlideTypeTitle      SlideType = "title_slide"
	SlideTypeOverview   SlideType = "overview_slide"
	SlideTypeKeyPoint   SlideType = "key_point_slide"
	SlideTypeConclusion SlideType = "conclusion_slide"
)

// PlanItem is one slide intent: its type and the purpose the generated
// content should serve.
type PlanItem struct {
	Type    SlideType `json:"type"`
	Purpose string    `json:"purpose"`
}

// Plan is the ordered list of slide intents for one presentation.
type Plan struct {
	Slides []PlanItem `json:"slides"`
}

// BuildPlan returns the fixed seven-slide plan for a topic: title, overview,
// four key points, conclusion. The structure is the same for every topic.
func BuildPlan(topic string) Plan {
	return Plan{
		Slides: []PlanItem{
			{Type: SlideTypeTitle, Purpose: "A compelling title for the presentation."},
			{Type: SlideTypeOverview, Purpose: "An overview describing key talking points."},
			{Type: SlideTypeKeyPoint, Purpose: fmt.Sprintf("The first key point or trend about %s.", topic)},
			{Type: SlideTypeKeyPoint, Purpose: fmt.Sprintf("The second key point or argument about %s.", topic)},
			{Type: SlideTypeKeyPoint, Purpose: fmt.Sprintf("The third key point or trend about %s.", topic)},
			{Type: SlideTypeKeyPoint, Purpose: fmt.Sprintf("The fourth key point or argument about %s.", topic)},
			{Type: SlideTypeConclusion, Purpose: "Give Concluding Points."},
		},
	}
}
