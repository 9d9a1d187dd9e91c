package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplicationNotification(t *testing.T) {
	subject, body := ApplicationNotification("Backend Engineer", "Jane Seeker")

	assert.Equal(t, "New Application for Backend Engineer", subject)
	assert.Contains(t, body, "Backend Engineer")
	assert.Contains(t, body, "Jane Seeker")
}

func TestApplicationConfirmation(t *testing.T) {
	subject, body := ApplicationConfirmation("Backend Engineer", "TechNova")

	assert.Equal(t, "Application Confirmation - Backend Engineer", subject)
	assert.Contains(t, body, "Backend Engineer")
	assert.Contains(t, body, "TechNova")
}
