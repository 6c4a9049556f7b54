package dataset

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rushteam/seqkit/core"
)

// Loader 读取分隔符表格文件（MovieLens 风格）。
//
// 评分文件每行：user<sep>item<sep>rating<sep>timestamp
// 物品文件每行：item<sep>title<sep>genre1|genre2|...
//
// 只对 ID/rating/timestamp 列做类型转换，不做额外 schema 校验。
type Loader struct {
	// Separator 是列分隔符，默认 "::"
	Separator string

	// SkipHeader 为 true 时跳过首行
	SkipHeader bool
}

// ItemMeta 是物品元数据。
type ItemMeta struct {
	ID     int64
	Title  string
	Genres []string
}

func (l *Loader) separator() string {
	if l.Separator == "" {
		return "::"
	}
	return l.Separator
}

// LoadInteractions 读取评分文件，返回按文件行序排列的交互记录。
func (l *Loader) LoadInteractions(path string) ([]core.Interaction, error) {
	var out []core.Interaction
	err := l.scanLines(path, func(lineNo int, cols []string) error {
		if len(cols) < 4 {
			return fmt.Errorf("line %d: expected 4 columns, got %d", lineNo, len(cols))
		}
		itemID, err := strconv.ParseInt(cols[1], 10, 64)
		if err != nil {
			return fmt.Errorf("line %d: parse item id: %w", lineNo, err)
		}
		rating, err := strconv.ParseFloat(cols[2], 64)
		if err != nil {
			return fmt.Errorf("line %d: parse rating: %w", lineNo, err)
		}
		ts, err := strconv.ParseInt(cols[3], 10, 64)
		if err != nil {
			return fmt.Errorf("line %d: parse timestamp: %w", lineNo, err)
		}
		out = append(out, core.Interaction{
			UserID:    cols[0],
			ItemID:    itemID,
			Rating:    rating,
			Timestamp: ts,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LoadItems 读取物品元数据文件。
func (l *Loader) LoadItems(path string) (map[int64]ItemMeta, error) {
	out := make(map[int64]ItemMeta)
	err := l.scanLines(path, func(lineNo int, cols []string) error {
		if len(cols) < 2 {
			return fmt.Errorf("line %d: expected at least 2 columns, got %d", lineNo, len(cols))
		}
		id, err := strconv.ParseInt(cols[0], 10, 64)
		if err != nil {
			return fmt.Errorf("line %d: parse item id: %w", lineNo, err)
		}
		meta := ItemMeta{ID: id, Title: cols[1]}
		if len(cols) > 2 && cols[2] != "" {
			meta.Genres = strings.Split(cols[2], "|")
		}
		out[id] = meta
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Loader) scanLines(path string, fn func(lineNo int, cols []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sep := l.separator()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo == 1 && l.SkipHeader {
			continue
		}
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		if err := fn(lineNo, strings.Split(line, sep)); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan %s: %w", path, err)
	}
	return nil
}
