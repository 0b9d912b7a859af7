package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStageCanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    Stage
		to      Stage
		allowed bool
	}{
		{name: "live to accepted", from: StageLive, to: StageAccepted, allowed: true},
		{name: "accepted to started", from: StageAccepted, to: StageStarted, allowed: true},
		{name: "accepted back to live on cancel", from: StageAccepted, to: StageLive, allowed: true},
		{name: "started to completed", from: StageStarted, to: StageCompleted, allowed: true},
		{name: "live cannot skip to started", from: StageLive, to: StageStarted, allowed: false},
		{name: "live cannot skip to completed", from: StageLive, to: StageCompleted, allowed: false},
		{name: "started cannot go back to live", from: StageStarted, to: StageLive, allowed: false},
		{name: "started cannot go back to accepted", from: StageStarted, to: StageAccepted, allowed: false},
		{name: "completed is terminal", from: StageCompleted, to: StageLive, allowed: false},
		{name: "no self loop", from: StageAccepted, to: StageAccepted, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestRequestTotalCents(t *testing.T) {
	request := &Request{
		Items: []ServiceItem{
			{PriceCents: 2500},
			{PriceCents: 4000},
			{PriceCents: 199},
		},
	}

	assert.Equal(t, int64(6699), request.TotalCents())
}

func TestRequestTotalCentsEmpty(t *testing.T) {
	request := &Request{}

	assert.Equal(t, int64(0), request.TotalCents())
}
