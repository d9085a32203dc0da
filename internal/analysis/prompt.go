package analysis

import (
	"fmt"
	"strings"

	"competitive-analysis/internal/domain"
)

// BuildPrompt assembles the analysis prompt from the request and the
// scraped competitor context.
func BuildPrompt(businessIdea, location string, competitors []domain.Competitor) string {
	var context strings.Builder
	for _, c := range competitors {
		fmt.Fprintf(&context, "%d. %s", c.Rank, c.BusinessName)
		if c.Description != "" {
			fmt.Fprintf(&context, " - %s", c.Description)
		}
		if c.Services != "" {
			fmt.Fprintf(&context, " Services: %s.", c.Services)
		}
		if c.PricingInfo != "" {
			fmt.Fprintf(&context, " Pricing: %s.", c.PricingInfo)
		}
		context.WriteString("\n")
	}

	return fmt.Sprintf(`Based on the following market information about %s businesses in %s:

%s
Please provide a comprehensive competitive analysis with the following structure:

# COMPETITIVE ANALYSIS REPORT

## 1. MAJOR COMPETITORS
List 3-5 specific competitor names with brief descriptions of each.

## 2. MARKET OVERVIEW
- Market saturation level
- Competition intensity
- Market size and growth trends

## 3. COMPETITOR PROFILES
For each major competitor, analyze:
- Business model and positioning
- Pricing strategy
- Key strengths and weaknesses
- Market share and customer base

## 4. MARKET GAPS AND OPPORTUNITIES
- Underserved customer segments
- Service gaps in the market
- Emerging trends and opportunities

## 5. COMPETITIVE POSITIONING STRATEGY
- Recommended market positioning
- Differentiation opportunities
- Pricing strategy recommendations

## 6. SUCCESS FACTORS AND CHALLENGES
- Key factors for success in this market
- Main barriers to entry
- Potential risks and mitigation strategies

## 7. ACTIONABLE RECOMMENDATIONS
- Specific steps to enter the market
- Timeline and milestones
- Resource requirements

Format your response with clear headings and bullet points for easy reading.`,
		businessIdea, location, context.String())
}
