package pagination

import (
	"encoding/base64"
	"strconv"
	"strings"
)

// EncodeCursor takes a page number and encodes it to a base64 string as "cursor:page:NUMBER".
func EncodeCursor(page int) *string {
	data := "cursor:page:" + strconv.Itoa(page)
	encoded := base64.URLEncoding.EncodeToString([]byte(data))
	return &encoded
}

// DecodeCursor takes a base64 string and decodes it to extract the page number from a string
// based on "cursor:page:NUMBER". It defaults to 1 if it cannot decode or has any error.
func DecodeCursor(input *string) int {
	if input == nil {
		return 1
	}

	decoded, err := base64.URLEncoding.DecodeString(*input)
	if err != nil {
		return 1
	}

	data := strings.Split(string(decoded), ":")
	if len(data) != 3 || data[0] != "cursor" || data[1] != "page" {
		return 1
	}

	page, err := strconv.ParseInt(data[2], 10, 32)
	if err != nil || page < 1 {
		return 1
	}
	return int(page)
}
