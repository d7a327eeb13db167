package apiclient

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMessage(t *testing.T) {
	cases := map[string]string{
		`{"message":"Seat already booked"}`:                     "Seat already booked",
		`{"error":"Forbidden"}`:                                 "Forbidden",
		`{"error":{"message":"Invalid showtime"}}`:              "Invalid showtime",
		`{"status":"error","data":{"message":"Movie missing"}}`: "Movie missing",
		`{"return_code":2,"return_message":"Order not found"}`:  "Order not found",
		`{"status":"error"}`:                                    "",
		`<html>bad gateway</html>`:                              "",
		``:                                                      "",
	}
	for body, expected := range cases {
		assert.Equal(t, expected, extractMessage([]byte(body)), body)
	}
}

func TestAPIErrorString(t *testing.T) {
	withMessage := newAPIError(&Response{StatusCode: http.StatusConflict, Body: []byte(`{"message":"taken"}`)})
	assert.Equal(t, "backend responded with 409: taken", withMessage.Error())

	withoutMessage := newAPIError(&Response{StatusCode: http.StatusInternalServerError})
	assert.Equal(t, "backend responded with 500 Internal Server Error", withoutMessage.Error())
}

func TestClassify(t *testing.T) {
	assert.Equal(t, outcomeOK, classify(&Response{StatusCode: http.StatusCreated}))
	assert.Equal(t, outcomeOK, classify(&Response{StatusCode: http.StatusNotModified}))
	assert.Equal(t, outcomeUnauthorized, classify(&Response{StatusCode: http.StatusUnauthorized}))
	assert.Equal(t, outcomeFailed, classify(&Response{StatusCode: http.StatusForbidden}))
	assert.Equal(t, outcomeFailed, classify(&Response{StatusCode: http.StatusBadGateway}))
}

func TestDecodeData(t *testing.T) {
	type movie struct {
		ID     int    `json:"id"`
		Title  string `json:"title"`
		Status string `json:"status"`
	}
	cases := map[string]string{
		"envelope":      `{"status":"success","data":{"id":3,"title":"Dune","status":"showing"}}`,
		"data only":     `{"data":{"id":3,"title":"Dune","status":"showing"}}`,
		"bare":          `{"id":3,"title":"Dune","status":"showing"}`,
		"leading space": ` {"id":3,"title":"Dune","status":"showing"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			var output movie
			err := (&Response{StatusCode: http.StatusOK, Body: []byte(body)}).DecodeData(&output)
			assert.NoError(t, err)
			assert.Equal(t, movie{ID: 3, Title: "Dune", Status: "showing"}, output)
		})
	}

	var list []movie
	err := (&Response{StatusCode: http.StatusOK, Body: []byte(`[{"id":1},{"id":2}]`)}).DecodeData(&list)
	assert.NoError(t, err)
	assert.Len(t, list, 2)

	var ignored movie
	err = (&Response{StatusCode: http.StatusOK, Body: []byte(`{"status":"error","message":"Showtime is full"}`)}).DecodeData(&ignored)
	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Showtime is full", apiErr.Message)

	err = (&Response{StatusCode: http.StatusNoContent}).DecodeData(&ignored)
	assert.Error(t, err)
}
