// Package models defines the core domain models for SocietyHub.
//
// # Models
//
//   - MCUser: a Management Committee registration record and, once
//     approved, the member's portal login identity
//   - Notification: an in-app alert delivered to an operator
//   - BudgetItem: one line of the society's annual budget master,
//     the target of spreadsheet bulk imports
//
// # Design Principles
//
// 1. **Typed lifecycle**: MC status is a closed enum, not free text
// 2. **Avoid circular references**: use ID strings instead of pointers for relationships
// 3. **Unix timestamps**: all times are int64 Unix seconds, formatted only at presentation boundaries
package models
