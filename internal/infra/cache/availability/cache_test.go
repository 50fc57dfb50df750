package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/RC-BookingService/pkg/ptr"
)

func TestEntryKey(t *testing.T) {
	anyResource := Key{Date: "2025-03-10", ServiceID: 2, StepMinutes: 30}
	bay := Key{Date: "2025-03-10", ServiceID: 2, ResourceID: ptr.Ptr(int64(5)), StepMinutes: 15}

	assert.Equal(t, "availability:2025-03-10:g1:v3:service:2:resource:any:step:30",
		entryKey(anyResource, Stamp{Generation: 1, Version: 3}))
	assert.Equal(t, "availability:2025-03-10:g0:v0:service:2:resource:5:step:15",
		entryKey(bay, Stamp{}))
}

func TestEntryKey_ChangesWithStamp(t *testing.T) {
	key := Key{Date: "2025-03-10", ServiceID: 2, StepMinutes: 30}

	assert.NotEqual(t, entryKey(key, Stamp{Version: 1}), entryKey(key, Stamp{Version: 2}))
	assert.NotEqual(t, entryKey(key, Stamp{Generation: 1}), entryKey(key, Stamp{Generation: 2}))
}

func TestVersionKey(t *testing.T) {
	assert.Equal(t, "availability:version:2025-03-10", versionKey("2025-03-10"))
}

func TestParseCounter(t *testing.T) {
	n, err := parseCounter(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = parseCounter("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	_, err = parseCounter("x")
	assert.Error(t, err)

	_, err = parseCounter(42)
	assert.Error(t, err)
}
