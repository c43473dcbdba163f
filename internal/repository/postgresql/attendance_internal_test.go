package postgresql

import (
	"testing"

	"github.com/cmlabs-hris/teamops-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAttendance(t *testing.T) {
	in, out, hours := "08:30", "17:15", "7.8"

	r, err := decodeAttendance(attendance.Record{ID: "a1"}, "Present", &in, &out, &hours)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, r.Status)
	assert.Equal(t, "08:30", r.ClockIn.String())
	assert.Equal(t, "17:15", r.ClockOut.String())
	assert.Equal(t, "7.8", r.HoursWorked.String())

	bad := "abc"
	_, err = decodeAttendance(attendance.Record{ID: "a2"}, "Present", nil, nil, &bad)
	assert.Error(t, err)

	_, err = decodeAttendance(attendance.Record{ID: "a3"}, "Absent", &bad, nil, nil)
	assert.ErrorIs(t, err, attendance.ErrInvalidTimeOfDay)
}

func TestEncodeHelpers(t *testing.T) {
	assert.Nil(t, encodeTime(nil))
	assert.Nil(t, encodeHours(nil))

	tod, err := attendance.ParseTimeOfDay("07:05")
	require.NoError(t, err)
	assert.Equal(t, "07:05", *encodeTime(&tod))
}
