/*
Package formula implements the model specification mini-language.

A specification is a sum of terms with an optional leading '~':

	~ 1 + age_group + day_of_week:age_group + (1 + x | location) + rw(week, by = age_group)

Three term families are recognised:

  - fixed terms: a column name, or an interaction of column names joined
    by ':' ('a*b' expands to 'a + b + a:b');
  - grouped random-effect terms: '(fixed_part | grouping_part)';
  - random-walk terms: 'rw(time, by, type)' with 'by' optional and 'type'
    one of "independent" (default) or "dependent". Arguments may be
    positional or named.

'1' and '0' (or '- 1') control the intercept. Parse builds a tagged-variant
term tree; String renders it back to a canonical specification. Classify
partitions a specification into its three families.
*/
package formula
