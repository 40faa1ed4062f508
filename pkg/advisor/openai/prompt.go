package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/skyops/aeromaint/pkg/models"
)

const systemPrompt = `You are a maintenance planning assistant for a charter aircraft operator.
Given per-aircraft utilization summaries, suggest maintenance actions.

Respond with a JSON object of this exact shape:
{
  "recommendations": [
    {
      "tail_number": "<aircraft tail number from the input>",
      "type": "A_CHECK" | "B_CHECK" | "ENGINE_INSPECTION" | "AVIONICS_UPDATE" | "LANDING_GEAR_SERVICE" | "INTERIOR_REFRESH",
      "confidence": <number 0-100>,
      "estimated_cost": <number, USD>,
      "urgency": "LOW" | "MEDIUM" | "HIGH" | "CRITICAL",
      "reasoning": ["<short factual sentence>", ...]
    }
  ]
}

Only reference aircraft present in the input. Prefer fewer, well-justified
suggestions over exhaustive lists. Return {"recommendations": []} when no
action is warranted.`

// buildUserPrompt serializes the fleet snapshot and optional schedule
// context into the user message.
func buildUserPrompt(fleet []models.AircraftUtilization, schedule *models.ScheduleContext) (string, error) {
	fleetJSON, err := json.MarshalIndent(fleet, "", "  ")
	if err != nil {
		return "", err
	}

	var b strings.Builder

	b.WriteString("Fleet utilization snapshot:\n")
	b.Write(fleetJSON)

	if schedule != nil {
		scheduleJSON, err := json.MarshalIndent(schedule, "", "  ")
		if err != nil {
			return "", err
		}

		b.WriteString("\n\nSchedule context:\n")
		b.Write(scheduleJSON)
	}

	b.WriteString(fmt.Sprintf("\n\nSuggest maintenance actions for these %d aircraft.", len(fleet)))

	return b.String(), nil
}
