package bfile_test

import "strconv"

func formatDataLine(index, value int64) string {
	return strconv.FormatInt(index, 10) + " " + strconv.FormatInt(value, 10) + "\n"
}
