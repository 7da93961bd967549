// Package app wires the loader, aggregation, reporting and exporters into
// the single batch run of the prenoms command.
//
// A run goes through fixed steps:
//
//  1. Load the two yearly files. Any failure ends the run with an error.
//  2. Merge them into one dataset.
//  3. Export the merged dataset.
//  4. Print the top names of each year.
//  5. Print the top female and male names over both years.
//  6. Export the per-name totals of the merged dataset.
//  7. Export the rankings workbook, when one is configured.
//
// Export and reporting failures are logged and recorded in the RunSummary;
// they do not fail the run. A panic is recovered and returned as an
// UNEXPECTED error.
package app
