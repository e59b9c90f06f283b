package controller

import (
	"fmt"

	"github.com/utafrali/catalog-widget/internal/domain"
)

func success(msg string) domain.Notice {
	return domain.Notice{Message: msg, Severity: domain.SeveritySuccess}
}

func info(msg string) domain.Notice {
	return domain.Notice{Message: msg, Severity: domain.SeverityInfo}
}

func failure(msg string) domain.Notice {
	return domain.Notice{Message: msg, Severity: domain.SeverityError}
}

var (
	noticeLoadFailed  = failure("Failed to load products. Please refresh the page.")
	noticeEmptySearch = failure("Please enter a search term")
	noticeCleared     = info("Search cleared")
	noticeCartCleared = success("Cart cleared successfully!")
)

func noticeFiltered(category string) domain.Notice {
	return success("Filtered by: " + domain.CategoryLabel(category))
}

func noticeSearching(term string) domain.Notice {
	return info(`Searching for "` + term + `"...`)
}

func noticeSuggestion(value string) domain.Notice {
	return info(`Searching for "` + value + `"`)
}

func noticeAdded(name string) domain.Notice {
	return success(fmt.Sprintf("Added %s to cart!", name))
}

func noticeRemoved(name string) domain.Notice {
	return info(fmt.Sprintf("Removed %s from cart!", name))
}
