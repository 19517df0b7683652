// Package ics extracts meeting event data from iCalendar (.ics) payloads
// found in invitation emails. Only the first VEVENT of a calendar is
// considered; invitations carry exactly one in practice.
package ics
