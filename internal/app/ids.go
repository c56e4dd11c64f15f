package app

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"
)

const reservationIDLength = 10

func newUUID() string {
	return uuid.NewString()
}

// NewReservationID derives a short alphanumeric token from the seat coordinates and the
// issuance time. The token space is small enough that collisions are possible; the seat
// ledger's compare-and-set stays the authority on who holds a seat.
func NewReservationID(eventID string, row, column int, issuedAt time.Time) string {
	raw := eventID + "-" + strconv.Itoa(row) + "-" + strconv.Itoa(column) + "-" + strconv.FormatInt(issuedAt.UnixNano(), 10)
	sum := blake3.Sum256([]byte(raw))
	encoded := base64.StdEncoding.EncodeToString(sum[:])

	var b strings.Builder
	b.Grow(reservationIDLength)
	for _, r := range encoded {
		if b.Len() == reservationIDLength {
			break
		}
		if ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
