package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// openEye returns six contour points with the given vertical opening over a
// fixed horizontal width of 1.0, so EAR == opening.
func openEye(opening float64) []Point {
	half := opening / 2
	return []Point{
		{X: 0, Y: 0},       // p1
		{X: 0.3, Y: half},  // p2
		{X: 0.7, Y: half},  // p3
		{X: 1, Y: 0},       // p4
		{X: 0.7, Y: -half}, // p5
		{X: 0.3, Y: -half}, // p6
	}
}

func TestNormalizeFrame_ComputesAveragedEAR(t *testing.T) {
	payload := &FramePayload{
		Timestamp:    time.Now(),
		FaceDetected: true,
		LeftEye:      openEye(0.3),
		RightEye:     openEye(0.5),
	}
	sample, err := NormalizeFrame(payload)
	require.NoError(t, err)
	require.True(t, sample.FaceDetected)
	require.InDelta(t, 0.4, sample.EAR, 1e-9)
}

func TestNormalizeFrame_NoFaceIsNoSignalNotError(t *testing.T) {
	sample, err := NormalizeFrame(&FramePayload{FaceDetected: false})
	require.NoError(t, err)
	require.False(t, sample.FaceDetected)
	require.Zero(t, sample.EAR)
}

func TestNormalizeFrame_RejectsMalformedGeometry(t *testing.T) {
	payload := &FramePayload{
		FaceDetected: true,
		LeftEye:      openEye(0.3)[:4],
		RightEye:     openEye(0.3),
	}
	_, err := NormalizeFrame(payload)
	require.Error(t, err)
}

func TestNormalizeFrame_RejectsOutOfRangeMetrics(t *testing.T) {
	payload := &FramePayload{
		FaceDetected:  true,
		LeftEye:       openEye(0.3),
		RightEye:      openEye(0.3),
		FacialTension: 1.5,
	}
	_, err := NormalizeFrame(payload)
	require.Error(t, err)
}

func TestNormalizeFrame_DegenerateEyeWidthYieldsZeroEAR(t *testing.T) {
	collapsed := make([]Point, 6) // all points coincide, |p1-p4| == 0
	payload := &FramePayload{
		FaceDetected: true,
		LeftEye:      collapsed,
		RightEye:     collapsed,
	}
	sample, err := NormalizeFrame(payload)
	require.NoError(t, err)
	require.Zero(t, sample.EAR)
}

func TestNormalizeTyping_EmptyBatchIsValid(t *testing.T) {
	batch, err := NormalizeTyping(&TypingBatch{})
	require.NoError(t, err)
	require.Empty(t, batch.Keystrokes)
}

func TestNormalizeTyping_RejectsZeroTimestamps(t *testing.T) {
	_, err := NormalizeTyping(&TypingBatch{
		Keystrokes: []KeystrokeEvent{{Type: "keypress"}},
	})
	require.Error(t, err)
}

func TestNormalizeTyping_RejectsNegativeHesitation(t *testing.T) {
	_, err := NormalizeTyping(&TypingBatch{
		Hesitations: []HesitationEvent{{Duration: -1}},
	})
	require.Error(t, err)
}

func TestNormalizeBiosignal_MissingComponentsAreLegal(t *testing.T) {
	sample, err := NormalizeBiosignal(&BiosignalPayload{})
	require.NoError(t, err)
	require.True(t, sample.IsEmpty())
	require.False(t, sample.Timestamp.IsZero())
}

func TestNormalizeBiosignal_RangeChecks(t *testing.T) {
	bad := 1.5
	_, err := NormalizeBiosignal(&BiosignalPayload{StressLevel: &bad})
	require.Error(t, err)

	hr := -10.0
	_, err = NormalizeBiosignal(&BiosignalPayload{HeartRate: &hr})
	require.Error(t, err)
}
