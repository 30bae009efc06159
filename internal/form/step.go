package form

import "fmt"

// Step is a position in the three-step product wizard.
type Step int

const (
	StepBasicInfo Step = iota + 1
	StepPricing
	StepImage
)

// Fields lists the json field names a step owns.
func (s Step) Fields() []string {
	switch s {
	case StepBasicInfo:
		return []string{"name", "description"}
	case StepPricing:
		return []string{"price", "category", "stock"}
	case StepImage:
		return []string{"imageUrl"}
	}
	return nil
}

func (s Step) String() string {
	switch s {
	case StepBasicInfo:
		return "basic information"
	case StepPricing:
		return "pricing & inventory"
	case StepImage:
		return "product image"
	}
	return fmt.Sprintf("step(%d)", int(s))
}
