//go:build js && wasm

package main

import (
	"fmt"
	"syscall/js"

	"github.com/kittclouds/grudgebook/internal/store"
)

// localStorageSlot persists slots in window.localStorage, so data written by
// earlier builds of the page keeps loading.
type localStorageSlot struct {
	ls js.Value
}

// newLocalStorageSlot returns false when localStorage is unavailable
// (private mode, sandboxed iframes, workers).
func newLocalStorageSlot() (*localStorageSlot, bool) {
	ls := js.Global().Get("localStorage")
	if ls.IsUndefined() || ls.IsNull() {
		return nil, false
	}
	return &localStorageSlot{ls: ls}, true
}

func (s *localStorageSlot) Get(key string) (value string, ok bool, err error) {
	defer catch(&err, "getItem")
	v := s.ls.Call("getItem", key)
	if v.IsNull() || v.IsUndefined() {
		return "", false, nil
	}
	return v.String(), true, nil
}

// Set fails with the browser's error when the quota is exceeded; large images do that.
func (s *localStorageSlot) Set(key, value string) (err error) {
	defer catch(&err, "setItem")
	s.ls.Call("setItem", key, value)
	return nil
}

func (s *localStorageSlot) Delete(key string) (err error) {
	defer catch(&err, "removeItem")
	s.ls.Call("removeItem", key)
	return nil
}

// catch turns a thrown JS exception into an error.
func catch(err *error, op string) {
	if r := recover(); r != nil {
		if jsErr, ok := r.(js.Error); ok {
			*err = fmt.Errorf("localStorage.%s: %s", op, jsErr.Error())
			return
		}
		panic(r)
	}
}

var _ store.Slot = (*localStorageSlot)(nil)
