package tasks

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const sheetName = "sheet1"

// SheetSource reads and writes the Google Sheets document the cafe staff
// edit by hand.
type SheetSource struct {
	svc           *sheets.Service
	spreadsheetID string
}

func NewSheetSource(ctx context.Context, credentialsFile, spreadsheetID string) (*SheetSource, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}
	return &SheetSource{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func (s *SheetSource) Load(ctx context.Context) ([][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.
		Get(s.spreadsheetID, sheetName+"!A:G").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("load sheet: %w", err)
	}

	rows := make([][]string, len(resp.Values))
	for i, raw := range resp.Values {
		row := make([]string, len(raw))
		for j, v := range raw {
			row[j] = fmt.Sprint(v)
		}
		rows[i] = row
	}
	return rows, nil
}

func (s *SheetSource) WriteID(ctx context.Context, col Column, rowIndex int, id string) error {
	rng := fmt.Sprintf("%s!%s%d", sheetName, col, rowIndex+1)
	_, err := s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, rng, &sheets.ValueRange{Values: [][]any{{id}}}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("write id to %s: %w", rng, err)
	}
	return nil
}
