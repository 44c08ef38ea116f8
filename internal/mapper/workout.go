package mapper

import (
	"slices"
	"strings"

	"github.com/lildude/stravaweb/internal/weberr"
)

// ActivityTypes are the activity types the training page can filter on.
var ActivityTypes = []string{
	"AlpineSki", "BackcountrySki", "Canoeing", "Crossfit", "EBikeRide",
	"Elliptical", "Golf", "Handcycle", "Hike", "IceSkate", "InlineSkate",
	"Kayaking", "Kitesurf", "NordicSki", "Ride", "RockClimbing", "RollerSki",
	"Rowing", "Run", "Sail", "Skateboard", "Snowboard", "Snowshoe", "Soccer",
	"StairStepper", "StandUpPaddling", "Surfing", "Swim", "Velomobile",
	"VirtualRide", "VirtualRun", "Walk", "WeightTraining", "Wheelchair",
	"Windsurf", "Workout", "Yoga",
}

// workoutTypes maps a workout label to the site's integer per activity type.
// The empty label is the default workout.
var workoutTypes = map[string]map[string]int{
	"Ride": {"": 10, "Race": 11, "Workout": 12},
	"Run":  {"": 0, "Race": 1, "Long Run": 2, "Workout": 3},
}

// ValidActivityType reports whether t is a known activity type.
func ValidActivityType(t string) bool {
	return slices.Contains(ActivityTypes, t)
}

// HasWorkoutTypes reports whether activities of type t carry a workout type.
func HasWorkoutTypes(activityType string) bool {
	_, ok := workoutTypes[activityType]
	return ok
}

// DecodeWorkoutType returns the label for a raw workout type integer. A nil
// result means there is no label: the activity type has no workout types,
// the integer is not in its table, or it is the default workout.
func DecodeWorkoutType(activityType string, raw any) *string {
	table, ok := workoutTypes[activityType]
	if !ok {
		return nil
	}
	n, ok := raw.(float64)
	if !ok {
		if i, isInt := raw.(int); isInt {
			n, ok = float64(i), true
		}
	}
	if !ok {
		return nil
	}
	for label, v := range table {
		if float64(v) == n && label != "" {
			return &label
		}
	}
	return nil
}

// EncodeWorkoutType returns the integer for a workout label. A nil label is
// the default workout of the activity type.
func EncodeWorkoutType(activityType string, label *string) (int, error) {
	table, ok := workoutTypes[activityType]
	if !ok {
		return 0, weberr.Invalid("workout_type", "can only filter by workout type when activity type is one of: %s",
			strings.Join(WorkoutActivityTypes(), ", "))
	}
	key := ""
	if label != nil {
		key = *label
	}
	v, ok := table[key]
	if !ok {
		var labels []string
		for l := range table {
			if l != "" {
				labels = append(labels, l)
			}
		}
		slices.Sort(labels)
		return 0, weberr.Invalid("workout_type", "invalid workout type for a %s, must be one of: %s",
			activityType, strings.Join(labels, ", "))
	}
	return v, nil
}

func WorkoutActivityTypes() []string {
	types := make([]string, 0, len(workoutTypes))
	for t := range workoutTypes {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}
