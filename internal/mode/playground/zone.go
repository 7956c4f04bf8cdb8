package playground

import (
	"fmt"
	"strconv"
	"strings"
)

// Zone IDs for rendered buttons: button:{index}, in document order.
const zoneButtonPrefix = "button:"

func makeButtonZoneID(index int) string {
	return fmt.Sprintf("%s%d", zoneButtonPrefix, index)
}

// parseButtonZoneID extracts the index from a button zone ID.
func parseButtonZoneID(zoneID string) (int, bool) {
	if !strings.HasPrefix(zoneID, zoneButtonPrefix) {
		return 0, false
	}
	index, err := strconv.Atoi(strings.TrimPrefix(zoneID, zoneButtonPrefix))
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}
