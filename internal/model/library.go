// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Library, the root container for everything loaded
// from a user's diagram files: the deductions that can be opened, and the
// ordered script of open/close steps to run against them.
package model

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// StepAction names what a step does to its deduction.
type StepAction string

const (
	ActionOpen  StepAction = "open"
	ActionClose StepAction = "close"
)

// Step is one scripted open or close of a deduction.
type Step struct {
	Action        StepAction
	Deduction     string
	FSInformation *FSInfo
}

// Library holds all loaded deductions, keyed by libpath, and the script.
type Library struct {
	Deductions map[string]*Deduction
	Steps      []*Step
}

// NewLibrary creates and returns an initialized, empty Library.
func NewLibrary() *Library {
	return &Library{
		Deductions: make(map[string]*Deduction),
		Steps:      []*Step{},
	}
}

// AddDeduction registers a deduction, rejecting duplicate libpaths.
func (l *Library) AddDeduction(d *Deduction) error {
	if prev, exists := l.Deductions[d.Libpath]; exists {
		return fmt.Errorf("deduction '%s' declared in %s and again in %s", d.Libpath, prev.FSInformation, d.FSInformation)
	}
	l.Deductions[d.Libpath] = d
	return nil
}

// Deduction looks up a deduction by libpath.
func (l *Library) Deduction(libpath string) (*Deduction, bool) {
	d, ok := l.Deductions[libpath]
	return d, ok
}

// Libpaths returns the libpaths of all deductions in sorted order.
func (l *Library) Libpaths() []string {
	paths := make([]string, 0, len(l.Deductions))
	for p := range l.Deductions {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Validate checks every deduction and that every step names a known action
// and a known deduction.
func (l *Library) Validate() error {
	for _, p := range l.Libpaths() {
		if err := l.Deductions[p].Validate(); err != nil {
			return err
		}
	}
	if err := l.DetectTargetCycles(); err != nil {
		return err
	}
	for i, s := range l.Steps {
		if !slices.Contains([]StepAction{ActionOpen, ActionClose}, s.Action) {
			return fmt.Errorf("step %d (%s): unknown action '%s': must be 'open' or 'close'", i, s.FSInformation, s.Action)
		}
		if _, ok := l.Deductions[s.Deduction]; !ok {
			return fmt.Errorf("step %d (%s): unknown deduction '%s'", i, s.FSInformation, s.Deduction)
		}
	}
	return nil
}

// TargetOwner returns the libpath of the declared deduction whose subtree
// holds target: the longest dotted prefix of target naming a deduction.
func (l *Library) TargetOwner(target string) (string, bool) {
	for p := target; p != ""; {
		i := strings.LastIndexByte(p, '.')
		if i < 0 {
			break
		}
		p = p[:i]
		if _, ok := l.Deductions[p]; ok {
			return p, true
		}
	}
	return "", false
}

// DetectTargetCycles rejects deductions that, through their targets, can
// only be opened after themselves. A deduction depends on the deduction
// owning its target.
func (l *Library) DetectTargetCycles() error {
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(libpath string) error
	visit = func(libpath string) error {
		if permanent[libpath] {
			return nil
		}
		if temporary[libpath] {
			return fmt.Errorf("target cycle detected involving deduction '%s'", libpath)
		}
		temporary[libpath] = true

		if d := l.Deductions[libpath]; d.Target != "" {
			if owner, ok := l.TargetOwner(d.Target); ok {
				if err := visit(owner); err != nil {
					return err
				}
			}
		}

		delete(temporary, libpath)
		permanent[libpath] = true
		return nil
	}

	for _, p := range l.Libpaths() {
		if err := visit(p); err != nil {
			return err
		}
	}
	return nil
}
