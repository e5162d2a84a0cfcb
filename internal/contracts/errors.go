package contracts

import "errors"

var (
	// ErrProviderUnavailable ephemeris 위치/하우스 데이터를 얻지 못함 (샘플 스킵)
	ErrProviderUnavailable = errors.New("ephemeris provider unavailable")

	// ErrInvalidInput unknown body/point, house number outside 1-12, bad range
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound lookup of an absent chart or point
	ErrNotFound = errors.New("not found")

	// ErrNoChartData no usable birth position data at all
	ErrNoChartData = errors.New("no usable natal chart data")
)
