package notify

import (
	"testing"

	"github.com/davecharm16/startpoint-academics-sub001/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContact() *types.ProjectContact {
	return &types.ProjectContact{
		ID:            "proj-1",
		ReferenceCode: "SPA-2026-00007",
		TrackingToken: "abc123",
		ClientName:    "Maria <Santos>",
		ClientEmail:   "maria@example.com",
	}
}

func TestRenderCompletion(t *testing.T) {
	msg, err := Render("https://startpoint.test/", testContact(), types.NotificationRequest{
		ProjectID: "proj-1",
		Kind:      types.NotificationCompletion,
	})
	require.NoError(t, err)

	assert.Equal(t, "maria@example.com", msg.To)
	assert.Equal(t, "Your project SPA-2026-00007 is complete", msg.Subject)
	assert.Contains(t, msg.Text, "Hi Maria <Santos>,")
	assert.Contains(t, msg.Text, "https://startpoint.test/track/abc123")
	assert.Contains(t, msg.HTML, `href="https://startpoint.test/track/abc123"`)
	assert.Contains(t, msg.HTML, "Maria &lt;Santos&gt;")
}

func TestRenderPaymentValidatedAmount(t *testing.T) {
	amount := 1500.5
	msg, err := Render("https://startpoint.test", testContact(), types.NotificationRequest{
		ProjectID:       "proj-1",
		Kind:            types.NotificationPaymentValidated,
		AmountValidated: &amount,
	})
	require.NoError(t, err)

	assert.Equal(t, "Payment confirmed for SPA-2026-00007", msg.Subject)
	assert.Contains(t, msg.Text, "Amount received: 1500.50")
	assert.Contains(t, msg.HTML, "1500.50")
}

func TestRenderPaymentRejectedReason(t *testing.T) {
	msg, err := Render("https://startpoint.test", testContact(), types.NotificationRequest{
		ProjectID:       "proj-1",
		Kind:            types.NotificationPaymentRejected,
		RejectionReason: "  Receipt is unreadable ",
	})
	require.NoError(t, err)

	assert.Contains(t, msg.Text, "Reason: Receipt is unreadable\n")

	msg, err = Render("https://startpoint.test", testContact(), types.NotificationRequest{
		ProjectID: "proj-1",
		Kind:      types.NotificationPaymentRejected,
	})
	require.NoError(t, err)
	assert.NotContains(t, msg.Text, "Reason:")
}

func TestRenderUnknownKind(t *testing.T) {
	_, err := Render("https://startpoint.test", testContact(), types.NotificationRequest{ProjectID: "proj-1", Kind: "welcome"})
	assert.Error(t, err)
}

func TestTrackingURL(t *testing.T) {
	assert.Equal(t, "https://startpoint.test/track/a%2Fb", TrackingURL("https://startpoint.test//", "a/b"))
}
