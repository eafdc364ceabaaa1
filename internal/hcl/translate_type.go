// This file contains the logic for parsing HCL type keywords (`number`,
// `string`) in column declarations.

package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/hiermodel/internal/config"
	"github.com/specialistvlad/hiermodel/internal/ctxlog"
)

// typeExprToCtyType converts an HCL type keyword into its cty.Type
// equivalent. Only primitive types are accepted.
func typeExprToCtyType(ctx context.Context, expr hcl.Expression) (cty.Type, error) {
	logger := ctxlog.FromContext(ctx)

	switch v := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return cty.DynamicPseudoType, fmt.Errorf("invalid type keyword: traversal path is not a single identifier")
		}
		rootName := v.Traversal.RootName()
		logger.Debug("Parsing type expression as a primitive.", "keyword", rootName)
		switch rootName {
		case "string":
			return cty.String, nil
		case "number":
			return cty.Number, nil
		case "bool":
			return cty.Bool, nil
		default:
			return cty.DynamicPseudoType, fmt.Errorf("unknown primitive type %q", rootName)
		}
	case *hclsyntax.FunctionCallExpr:
		return cty.DynamicPseudoType, fmt.Errorf("collection type %s(...) cannot describe a column", v.Name)
	case nil:
		return cty.DynamicPseudoType, fmt.Errorf("missing type")
	default:
		return cty.DynamicPseudoType, fmt.Errorf("unsupported expression for type definition: %T", v)
	}
}

// columnType maps a column's declared cty type onto the config model. A
// bool column is read as a string factor.
func columnType(ctx context.Context, expr hcl.Expression) (config.ColumnType, error) {
	ty, err := typeExprToCtyType(ctx, expr)
	if err != nil {
		return "", err
	}
	switch {
	case ty.Equals(cty.Number):
		return config.ColumnNumber, nil
	case ty.Equals(cty.String), ty.Equals(cty.Bool):
		return config.ColumnString, nil
	}
	return "", fmt.Errorf("type %s cannot describe a column", ty.FriendlyName())
}
