package service

import "strconv"

// ParseID accepts only base-10 positive integers.
func ParseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, strconv.IntSize)
	if err != nil || id == 0 {
		return 0, invalidID(raw)
	}
	return uint(id), nil
}
