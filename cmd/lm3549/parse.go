package main

import (
	"fmt"
	"strconv"

	"github.com/mklimuk/lm3549"
)

func parseBank(arg string) (lm3549.Bank, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 || n > 2 {
		return 0, fmt.Errorf("invalid bank %q, expected 0, 1 or 2", arg)
	}
	return lm3549.Bank(n), nil
}

func parseChannel(arg string) (lm3549.Channel, error) {
	switch arg {
	case "red", "r":
		return lm3549.ChannelRed, nil
	case "green", "g":
		return lm3549.ChannelGreen, nil
	case "blue", "b":
		return lm3549.ChannelBlue, nil
	}
	return 0, fmt.Errorf("invalid channel %q, expected red, green or blue", arg)
}

func parseMilliamps(arg string) (uint16, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 || n > lm3549.MaxCurrent {
		return 0, fmt.Errorf("invalid current %q, expected 0..%d mA", arg, lm3549.MaxCurrent)
	}
	return uint16(n), nil
}

func parseSoftStart(arg string) (lm3549.SoftStart, error) {
	switch arg {
	case "none", "off":
		return lm3549.SoftStartNone, nil
	case "500ms":
		return lm3549.SoftStart500ms, nil
	case "1s":
		return lm3549.SoftStart1s, nil
	case "2s":
		return lm3549.SoftStart2s, nil
	}
	return 0, fmt.Errorf("invalid soft start %q, expected none, 500ms, 1s or 2s", arg)
}

func parseTimeout(arg string) (lm3549.Timeout, error) {
	switch arg {
	case "125ms":
		return lm3549.Timeout125ms, nil
	case "250ms":
		return lm3549.Timeout250ms, nil
	case "500ms":
		return lm3549.Timeout500ms, nil
	case "1s":
		return lm3549.Timeout1s, nil
	}
	return 0, fmt.Errorf("invalid timeout %q, expected 125ms, 250ms, 500ms or 1s", arg)
}

func parsePosLimit(arg string) (lm3549.PosLimit, error) {
	switch arg {
	case "500":
		return lm3549.PosLimit500mA, nil
	case "1000":
		return lm3549.PosLimit1000mA, nil
	case "1500":
		return lm3549.PosLimit1500mA, nil
	case "2000":
		return lm3549.PosLimit2000mA, nil
	}
	return 0, fmt.Errorf("invalid positive limit %q, expected 500, 1000, 1500 or 2000 (mA)", arg)
}

func parseNegLimit(arg string) (lm3549.NegLimit, error) {
	switch arg {
	case "550":
		return lm3549.NegLimit550mA, nil
	case "1100":
		return lm3549.NegLimit1100mA, nil
	case "1650":
		return lm3549.NegLimit1650mA, nil
	case "2200":
		return lm3549.NegLimit2200mA, nil
	}
	return 0, fmt.Errorf("invalid negative limit %q, expected 550, 1100, 1650 or 2200 (mA)", arg)
}
